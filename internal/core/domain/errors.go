package domain

import "errors"

var (
	ErrQuestionNotFound  = errors.New("question not found")
	ErrInvalidQuestionID = errors.New("invalid question id")
	ErrInvalidQuestion   = errors.New("invalid question")
	ErrChoiceNotSelected = errors.New("You didn't select a choice")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInternal          = errors.New("internal server error")
)
