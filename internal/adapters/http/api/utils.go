package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// validateQuery checks q against its struct tags and flattens failures into
// one message naming every offending parameter.
func validateQuery(q any) error {
	err := getValidator().Struct(q)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "max":
			if e.Kind() == reflect.String {
				msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", field, e.Param()))
			} else {
				msgs = append(msgs, fmt.Sprintf("%s must be at most %s", field, e.Param()))
			}
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", field, e.Param()))
		case "email":
			msgs = append(msgs, field+" must be an email address")
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// writeCSV sends body as a dated CSV attachment named after base.
func writeCSV(w http.ResponseWriter, base string, at time.Time, body io.WriterTo) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s-%s.csv"`, base, at.Format(time.DateOnly)))
	w.WriteHeader(http.StatusOK)
	_, _ = body.WriteTo(w)
}
