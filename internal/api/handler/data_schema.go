package handler

// dataQuery is the validated query of GET /v1/data. refresh is a string
// enum rather than a bool so that anything but a literal "true"/"false"
// fails validation instead of silently coercing.
type dataQuery struct {
	City     string `query:"city"     validate:"required,min=2,max=50"`
	Currency string `query:"currency" validate:"required,min=2,max=50"`
	Refresh  string `query:"refresh"  validate:"omitempty,oneof=true false"`
}
