package handlers

import (
	"bytes"
	"encoding/json"

	"tasks-api/internal/models"
)

var jsonNull = []byte("null")

// jsonString records whether a body field was present and held a JSON string.
// Decoding never fails on a wrong type so validation can report per field.
type jsonString struct {
	Value string
	Set   bool
	Valid bool
}

func (s *jsonString) UnmarshalJSON(data []byte) error {
	*s = jsonString{}
	if bytes.Equal(data, jsonNull) {
		return nil
	}
	s.Set = true
	if err := json.Unmarshal(data, &s.Value); err != nil {
		s.Value = ""
		return nil
	}
	s.Valid = true
	return nil
}

// present reports a non-empty string value.
func (s jsonString) present() bool {
	return s.Valid && s.Value != ""
}

type jsonBool struct {
	Value bool
	Set   bool
	Valid bool
}

func (b *jsonBool) UnmarshalJSON(data []byte) error {
	*b = jsonBool{}
	if bytes.Equal(data, jsonNull) {
		return nil
	}
	b.Set = true
	if err := json.Unmarshal(data, &b.Value); err != nil {
		b.Value = false
		return nil
	}
	b.Valid = true
	return nil
}

type createTaskRequest struct {
	Title jsonString `json:"title"`
	Color jsonString `json:"color"`
}

func (r *createTaskRequest) validate() error {
	return validateTitleAndColor(r.Title, r.Color)
}

type updateTaskRequest struct {
	Title     jsonString `json:"title"`
	Color     jsonString `json:"color"`
	Completed jsonBool   `json:"completed"`
}

func (r *updateTaskRequest) validate() error {
	if err := validateTitleAndColor(r.Title, r.Color); err != nil {
		return err
	}
	if r.Completed.Set && !r.Completed.Valid {
		return models.BadRequest(msgCompletedInvalid)
	}
	return nil
}

func (r *updateTaskRequest) changes() models.TaskChanges {
	changes := models.TaskChanges{
		Title: r.Title.Value,
		Color: r.Color.Value,
	}
	if r.Completed.Valid {
		completed := r.Completed.Value
		changes.Completed = &completed
	}
	return changes
}

func validateTitleAndColor(title, color jsonString) error {
	if !title.present() {
		return models.BadRequest(msgTitleRequired)
	}
	if !color.present() {
		return models.BadRequest(msgColorRequired)
	}
	return nil
}
