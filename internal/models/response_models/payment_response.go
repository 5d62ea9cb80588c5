package response_models

type InitiatePaymentResponse struct {
	CheckoutRequestID string `json:"checkoutRequestId"`
	Reference         string `json:"reference"`
	Status            string `json:"status"`
	CustomerMessage   string `json:"customerMessage,omitempty"`
}

type PaymentStatusResponse struct {
	CheckoutRequestID string `json:"checkoutRequestId"`
	Status            string `json:"status"`
	ResultCode        string `json:"resultCode,omitempty"`
	ResultDesc        string `json:"resultDesc,omitempty"`
	JobID             string `json:"jobId,omitempty"`
}

type NotifyResult struct {
	Matched int `json:"matched"`
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
}

type Location struct {
	Name        string  `json:"name"`
	DisplayName string  `json:"displayName"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}
