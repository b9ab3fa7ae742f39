package handler

import (
	"errors"
	"net/http"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"dinocars/internal/apierror"
	"dinocars/internal/middleware"
	"dinocars/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

var hhmm = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	_ = validate.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return hhmm.MatchString(fl.Field().String())
	})

	// Report fields by their wire name (json, else form).
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
}

// Locations for apierror.FieldError.
const (
	locBody  = "body"
	locQuery = "query"
)

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	return runValidation(c, locBody, req)
}

// bindQuery is bindAndValidate for query strings.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parametros invalidos: "+err.Error()))
		return false
	}
	return runValidation(c, locQuery, req)
}

// runValidation answers 422 with one entry per invalid field.
func runValidation(c *gin.Context, loc string, req interface{}) bool {
	err := validate.Struct(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return false
	}
	detalle := make([]apierror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		detalle = append(detalle, apierror.FieldError{
			Loc:  []string{loc, fe.Field()},
			Msg:  mensajeValidacion(fe),
			Type: fe.Tag(),
		})
	}
	c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(detalle))
	return false
}

func mensajeValidacion(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Campo obligatorio"
	case "hhmm":
		return "Hora invalida, se espera HH:MM"
	case "datetime":
		return "Fecha invalida, se espera " + fe.Param()
	case "oneof":
		return "Debe ser uno de: " + fe.Param()
	case "min":
		return "Debe ser al menos " + fe.Param()
	case "max":
		return "Debe ser como maximo " + fe.Param()
	default:
		return "Valor invalido"
	}
}

// parseID reads a positive integer path parameter.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return 0, false
	}
	return uint(id), true
}

// respondError maps service errors to HTTP statuses. Anything unknown is
// handed to middleware.ErrorHandler, which logs it and answers 500.
func respondError(c *gin.Context, err error) {
	var se *service.Error
	if !errors.As(err, &se) {
		_ = c.Error(err)
		return
	}
	switch se.Kind {
	case service.KindInvalido:
		c.JSON(http.StatusBadRequest, apierror.New(se.Msg))
	case service.KindNoAutorizado:
		middleware.Unauthorized(c, se.Msg)
	case service.KindNoEncontrado:
		c.JSON(http.StatusNotFound, apierror.New(se.Msg))
	case service.KindConflicto:
		c.JSON(http.StatusConflict, apierror.New(se.Msg))
	default:
		log.Warn().Int("kind", int(se.Kind)).Msg("unmapped service error kind")
		_ = c.Error(err)
	}
}
