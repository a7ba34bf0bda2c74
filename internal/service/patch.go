package service

import (
	"encoding/json"
	"fmt"

	"github.com/dlourenco/taskman/internal/domain"
)

// UserPatch is a partial profile update. Nil fields are untouched.
type UserPatch struct {
	Name     *string
	Email    *string
	Password *string
	Age      *int
}

// TaskPatch is a partial task update. Nil fields are untouched.
type TaskPatch struct {
	Description *string
	Completed   *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p *UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Password == nil && p.Age == nil
}

// IsEmpty reports whether the patch changes nothing.
func (p *TaskPatch) IsEmpty() bool {
	return p.Description == nil && p.Completed == nil
}

// decodePatch unmarshals raw JSON into per-key targets, rejecting the
// whole document if it contains any key outside the target set or a
// value of the wrong type. Rejection is wholesale: no field of a bad
// patch is ever applied.
func decodePatch(data []byte, targets map[string]any) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.NewValidationError("", "body must be a JSON object", domain.ErrValidation)
	}

	for key, value := range raw {
		target, ok := targets[key]
		if !ok {
			return domain.NewValidationError(key, "is not an editable field", domain.ErrValidation)
		}
		if err := json.Unmarshal(value, target); err != nil {
			return domain.NewValidationError(key, "has the wrong type", domain.ErrValidation)
		}
	}
	return nil
}

// ParseUserPatch decodes a profile update body. Recognized keys are
// name, email, password, and age; anything else fails validation.
func ParseUserPatch(data []byte) (*UserPatch, error) {
	var patch UserPatch
	err := decodePatch(data, map[string]any{
		"name":     &patch.Name,
		"email":    &patch.Email,
		"password": &patch.Password,
		"age":      &patch.Age,
	})
	if err != nil {
		return nil, err
	}
	return &patch, nil
}

// ParseTaskPatch decodes a task update body. Recognized keys are
// description and completed; anything else fails validation.
func ParseTaskPatch(data []byte) (*TaskPatch, error) {
	var patch TaskPatch
	err := decodePatch(data, map[string]any{
		"description": &patch.Description,
		"completed":   &patch.Completed,
	})
	if err != nil {
		return nil, err
	}
	return &patch, nil
}

// String renders the patch for debug logs without exposing the password.
func (p *UserPatch) String() string {
	masked := "<nil>"
	if p.Password != nil {
		masked = "***"
	}
	return fmt.Sprintf("UserPatch{Name:%v Email:%v Password:%s Age:%v}",
		deref(p.Name), deref(p.Email), masked, derefInt(p.Age))
}

func deref(s *string) any {
	if s == nil {
		return "<nil>"
	}
	return *s
}

func derefInt(i *int) any {
	if i == nil {
		return "<nil>"
	}
	return *i
}
