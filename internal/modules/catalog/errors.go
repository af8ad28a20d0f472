package catalog

import "errors"

var (
	ErrValidation          = errors.New("validation error")
	ErrNotFound            = errors.New("resource not found")
	ErrForbidden           = errors.New("you do not manage this property")
	ErrDuplicateAssignment = errors.New("assignment already exists")
	ErrNotHousekeeper      = errors.New("assignee is not a housekeeper")
	ErrNoTasksAssigned     = errors.New("property has no room tasks to derive checklist items from")
)
