package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strings"
	texttemplate "text/template"
	"time"

	"go.uber.org/zap"
)

// Message is one rendered email ready for delivery.
type Message struct {
	To       string
	ReplyTo  string
	Subject  string
	HTMLBody string
	TextBody string
}

// MailTransport delivers a rendered message.
type MailTransport interface {
	Deliver(ctx context.Context, msg Message) error
}

type IMailService interface {
	SendJobAlert(ctx context.Context, to string, alert JobAlert) error
	SendJobPosted(ctx context.Context, to string, posted JobPosted) error
	SendSupportNotice(ctx context.Context, posted JobPosted) error
	SendContactMessage(ctx context.Context, contact ContactMessage) error
	SendInvitation(ctx context.Context, to, companyName, inviterName string) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	UseSSL   bool // implicit TLS on 465, STARTTLS otherwise

	AppName      string
	AppBaseURL   string
	SupportEmail string
}

type JobAlert struct {
	JobID       string
	Title       string
	CompanyName string
	Industry    string
	Location    string
}

type JobPosted struct {
	JobID       string
	Title       string
	CompanyName string
	PosterName  string
	PosterEmail string
	Plan        string
	Status      string
	Deadline    string // dd/mm/yy, empty when open-ended
}

type ContactMessage struct {
	Name    string
	Email   string
	Subject string
	Message string
}

type smtpMailService struct {
	cfg       SMTPConfig
	transport MailTransport
	htmlTpl   *template.Template
	textTpl   *texttemplate.Template
	log       *zap.Logger
}

func NewSMTPMailService(cfg SMTPConfig, transport MailTransport, log *zap.Logger) IMailService {
	if transport == nil {
		transport = &smtpTransport{cfg: cfg}
	}
	return &smtpMailService{
		cfg:       cfg,
		transport: transport,
		htmlTpl:   template.Must(template.New("html").Parse(baseHTMLTemplate)),
		textTpl:   texttemplate.Must(texttemplate.New("text").Parse(plainTextTemplate)),
		log:       log,
	}
}

func (s *smtpMailService) SendJobAlert(ctx context.Context, to string, alert JobAlert) error {
	subject := fmt.Sprintf("New %s job: %s", alert.Industry, alert.Title)
	return s.render(ctx, to, "", EmailData{
		Title: subject,
		Lines: []string{
			fmt.Sprintf("%s is hiring a %s in %s.", alert.CompanyName, alert.Title, alert.Location),
			"You are receiving this because you subscribed to " + alert.Industry + " job alerts.",
		},
		ButtonURL: s.jobURL(alert.JobID),
		ButtonTxt: "View job",
		Footer:    "Unsubscribe any time from your alert settings.",
	})
}

func (s *smtpMailService) SendJobPosted(ctx context.Context, to string, posted JobPosted) error {
	lines := []string{
		fmt.Sprintf("Hi %s, your job \"%s\" has been posted on the %s plan.", posted.PosterName, posted.Title, posted.Plan),
		"Current status: " + posted.Status + ".",
	}
	if posted.Deadline != "" {
		lines = append(lines, "Application deadline: "+posted.Deadline+".")
	}
	return s.render(ctx, to, "", EmailData{
		Title:     "Your job is posted",
		Lines:     lines,
		ButtonURL: s.jobURL(posted.JobID),
		ButtonTxt: "View listing",
	})
}

func (s *smtpMailService) SendSupportNotice(ctx context.Context, posted JobPosted) error {
	if s.cfg.SupportEmail == "" {
		return nil
	}
	lines := []string{
		fmt.Sprintf("%s (%s) posted \"%s\" for %s.", posted.PosterName, posted.PosterEmail, posted.Title, posted.CompanyName),
		"Plan: " + posted.Plan + ", status: " + posted.Status + ".",
	}
	if posted.Deadline != "" {
		lines = append(lines, "Deadline: "+posted.Deadline+".")
	}
	return s.render(ctx, s.cfg.SupportEmail, posted.PosterEmail, EmailData{
		Title:     "New job posted: " + posted.Title,
		Lines:     lines,
		ButtonURL: s.jobURL(posted.JobID),
		ButtonTxt: "Open job",
	})
}

func (s *smtpMailService) SendContactMessage(ctx context.Context, contact ContactMessage) error {
	if s.cfg.SupportEmail == "" {
		return fmt.Errorf("support mailbox not configured")
	}
	return s.render(ctx, s.cfg.SupportEmail, contact.Email, EmailData{
		Title: "Contact: " + contact.Subject,
		Lines: append([]string{fmt.Sprintf("From %s <%s>:", contact.Name, contact.Email)},
			strings.Split(contact.Message, "\n")...),
	})
}

func (s *smtpMailService) SendInvitation(ctx context.Context, to, companyName, inviterName string) error {
	return s.render(ctx, to, "", EmailData{
		Title: "You're invited to join " + companyName,
		Lines: []string{
			fmt.Sprintf("%s invited you to post jobs for %s on %s.", inviterName, companyName, s.cfg.AppName),
			"Sign up with this email address to join the team.",
		},
		ButtonURL: s.cfg.AppBaseURL + "/signup?email=" + template.URLQueryEscaper(to),
		ButtonTxt: "Create account",
	})
}

func (s *smtpMailService) jobURL(jobID string) string {
	if jobID == "" {
		return s.cfg.AppBaseURL + "/jobs"
	}
	return s.cfg.AppBaseURL + "/jobs/" + jobID
}

type EmailData struct {
	Title     string
	Lines     []string
	ButtonURL string
	ButtonTxt string
	Footer    string
	AppName   string
	Year      int
}

const baseHTMLTemplate = `<!doctype html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width,initial-scale=1">
  <title>{{.Title}}</title>
  <style>
    body { margin: 0; padding: 0; background: #f4f1ea; color: #1f2933; font-family: -apple-system, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; }
    .wrapper { width: 100%; padding: 32px 12px; box-sizing: border-box; }
    .container { max-width: 600px; margin: 0 auto; background: #ffffff; border-radius: 12px; overflow: hidden; border: 1px solid #e4ddd0; }
    .header { padding: 24px 28px; background: #b45309; color: #fff7ed; font-weight: 700; font-size: 20px; letter-spacing: 0.4px; }
    .hero { padding: 28px; }
    h1 { margin: 0 0 16px; font-size: 22px; color: #111827; }
    p { margin: 0 0 14px; line-height: 1.6; font-size: 15px; color: #374151; }
    .btn { display: inline-block; margin-top: 12px; padding: 12px 24px; background: #b45309; color: #ffffff !important; text-decoration: none; border-radius: 8px; font-weight: 600; }
    .footer { padding: 18px 28px; font-size: 12px; color: #6b7280; border-top: 1px solid #eee7da; text-align: center; }
  </style>
</head>
<body>
  <div class="wrapper">
    <div class="container">
      <div class="header">{{.AppName}}</div>
      <div class="hero">
        <h1>{{.Title}}</h1>
        {{range .Lines}}<p>{{.}}</p>
        {{end}}
        {{if .ButtonURL}}<a class="btn" href="{{.ButtonURL}}">{{.ButtonTxt}}</a>{{end}}
      </div>
      <div class="footer">
        {{if .Footer}}{{.Footer}}<br>{{end}}
        &copy; {{.Year}} {{.AppName}}
      </div>
    </div>
  </div>
</body>
</html>`

const plainTextTemplate = `{{.Title}}

{{range .Lines}}{{.}}
{{end}}
{{if .ButtonURL}}{{.ButtonTxt}}: {{.ButtonURL}}
{{end}}{{if .Footer}}
{{.Footer}}
{{end}}
-- {{.AppName}} (c) {{.Year}}
`

func (s *smtpMailService) render(ctx context.Context, to, replyTo string, data EmailData) error {
	data.AppName = s.cfg.AppName
	data.Year = time.Now().Year()

	var hb, tb bytes.Buffer
	if err := s.htmlTpl.Execute(&hb, data); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	if err := s.textTpl.Execute(&tb, data); err != nil {
		return fmt.Errorf("render text: %w", err)
	}

	err := s.transport.Deliver(ctx, Message{
		To:       to,
		ReplyTo:  replyTo,
		Subject:  data.Title,
		HTMLBody: hb.String(),
		TextBody: tb.String(),
	})
	if err != nil {
		s.log.Warn("mail delivery failed", zap.String("to", to), zap.String("subject", data.Title), zap.Error(err))
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

type smtpTransport struct {
	cfg SMTPConfig
}

func (t *smtpTransport) Deliver(ctx context.Context, msg Message) error {
	raw := buildMIME(t.cfg, msg, time.Now())

	addr := net.JoinHostPort(t.cfg.Host, fmt.Sprint(t.cfg.Port))
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	tlsCfg := &tls.Config{ServerName: t.cfg.Host, MinVersion: tls.VersionTLS12}

	var conn net.Conn
	var err error
	if t.cfg.UseSSL {
		conn, err = tls.DialWithDialer(dialer, "tcp", addr, tlsCfg)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return err
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, t.cfg.Host)
	if err != nil {
		return err
	}
	defer c.Quit()

	if !t.cfg.UseSSL {
		ok, _ := c.Extension("STARTTLS")
		if !ok {
			return fmt.Errorf("smtp server %s does not offer STARTTLS", t.cfg.Host)
		}
		if err = c.StartTLS(tlsCfg); err != nil {
			return err
		}
	}

	if t.cfg.Username != "" {
		if err = c.Auth(smtp.PlainAuth("", t.cfg.Username, t.cfg.Password, t.cfg.Host)); err != nil {
			return err
		}
	}
	if err = c.Mail(t.cfg.From); err != nil {
		return err
	}
	if err = c.Rcpt(msg.To); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(raw); err != nil {
		return err
	}
	return w.Close()
}

func buildMIME(cfg SMTPConfig, msg Message, now time.Time) []byte {
	boundary := fmt.Sprintf("alt_%d", now.UnixNano())
	from := (&mail.Address{Name: cfg.FromName, Address: cfg.From}).String()

	var b bytes.Buffer
	write := func(format string, a ...any) { fmt.Fprintf(&b, format, a...) }

	write("From: %s\r\n", from)
	write("To: %s\r\n", msg.To)
	if msg.ReplyTo != "" {
		write("Reply-To: %s\r\n", msg.ReplyTo)
	}
	write("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	write("Date: %s\r\n", now.Format(time.RFC1123Z))
	write("MIME-Version: 1.0\r\n")
	write("Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)

	write("--%s\r\n", boundary)
	write("Content-Type: text/plain; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n\r\n", msg.TextBody)

	write("--%s\r\n", boundary)
	write("Content-Type: text/html; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n\r\n", msg.HTMLBody)

	write("--%s--\r\n", boundary)
	return b.Bytes()
}
