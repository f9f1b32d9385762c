package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/ai-job-matcher/internal/domain"
)

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

// decodeAndValidate decodes the JSON request body into dst and runs the
// struct validation tags. Any failure is reported as an invalid argument.
func decodeAndValidate(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", domain.ErrInvalidArgument, err)
	}
	if err := getValidator().Struct(dst); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}
	return nil
}

type skillsRequest struct {
	UserID string `json:"userId" validate:"required,max=128"`
}

type scoreRequest struct {
	UserID   string       `json:"userId" validate:"required,max=128"`
	Query    string       `json:"query" validate:"omitempty,max=200"`
	Location string       `json:"location" validate:"omitempty,max=200"`
	Jobs     []domain.Job `json:"jobs" validate:"omitempty,max=100"`
}

type applyRequest struct {
	UserID     string `json:"userId" validate:"required,max=128"`
	UserChoice string `json:"userChoice" validate:"required"`
	JobID      string `json:"jobId" validate:"required,max=256"`
	Title      string `json:"title" validate:"omitempty,max=300"`
	Company    string `json:"company" validate:"omitempty,max=300"`
	Status     string `json:"status" validate:"omitempty,max=64"`
	Notes      string `json:"notes" validate:"omitempty,max=2000"`
}

type statusRequest struct {
	UserID string `json:"userId" validate:"required,max=128"`
	Status string `json:"status" validate:"required,max=64"`
}

type chatRequest struct {
	Query string `json:"query" validate:"required,max=2000"`
}
