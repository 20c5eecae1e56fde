package dto

// CreateCourseRequest represents course creation data. The owner is always
// the authenticated caller; a client-supplied owner id has no field to land in.
type CreateCourseRequest struct {
	Name     string   `json:"name" binding:"required"`
	Credits  *float64 `json:"credits" binding:"omitempty,gt=0"`
	Semester *string  `json:"semester"`
	Color    *string  `json:"color"`
}
