package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"autumhire/pkg/middleware"
	"autumhire/pkg/utils"
)

// RegisterValidators adds the custom binding tags used by request models.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("kephone", func(fl validator.FieldLevel) bool {
		_, err := utils.NormalizeKenyanPhone(fl.Field().String())
		return err == nil
	})
}

// actorID reads the authenticated user id. It writes a 401 and returns false
// when the context has none.
func actorID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(middleware.CtxUserID))
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	return id, true
}

func optionalActor(c *gin.Context) *uuid.UUID {
	id, err := uuid.Parse(c.GetString(middleware.CtxUserID))
	if err != nil {
		return nil
	}
	return &id
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// bindError turns validator output into a short client message.
func bindError(c *gin.Context, err error) {
	var fields []string
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			fields = append(fields, fe.Field()+" ("+fe.Tag()+")")
		}
	}
	if len(fields) == 0 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	utils.RespondError(c, http.StatusBadRequest, "Invalid fields: "+strings.Join(fields, ", "))
}
