package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *TrackerError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *TrackerError {
	return New(CategoryValidation, SeverityError, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Project errors

func DuplicateProjectName(name string) *TrackerError {
	return New(CategoryConstraint, SeverityError, "project name already exists").
		WithContext("name", name)
}

func ProjectNotFound(id int64) *TrackerError {
	return New(CategoryNotFound, SeverityError, "project not found").
		WithContext("project_id", id)
}

func ProjectArchived(id int64) *TrackerError {
	return New(CategoryValidation, SeverityError, "project is archived").
		WithContext("project_id", id)
}

// Timer errors

func TimerProjectBusy(id int64) *TrackerError {
	return New(CategoryInvalidOp, SeverityError, "project has a running timer").
		WithContext("project_id", id)
}

// Storage errors

func StorageError(operation string, cause error) *TrackerError {
	return Wrap(cause, CategoryStorage, SeverityError, "storage operation failed").
		WithContext("operation", operation)
}
