package views

// SimulateRequest names the catalog operation to run plus its optional
// arguments. POST binds it from the JSON body, GET from query parameters.
type SimulateRequest struct {
	Operation string `json:"operation" form:"operation" binding:"required"`
	Code      *int   `json:"code,omitempty" form:"code"`
	Time      *int   `json:"time,omitempty" form:"time"` // milliseconds
}

// AntiPatternBody is the inner record of the malformed success payload.
type AntiPatternBody struct {
	Value string `json:"value"`
	Code  int    `json:"code"`
}

// AntiPatternPayload is returned as a nominal success while violating its own
// declared shape: Errors is a list of ints that always serializes as null.
type AntiPatternPayload struct {
	Errors []int           `json:"errors"`
	Body   AntiPatternBody `json:"body"`
}
