package entity

// ReturnState is the initial page state of the post-payment success page.
// It lives only for the duration of that page; it is terminal once the
// countdown reaches zero or the user acts manually.
type ReturnState struct {
	Countdown   int         `json:"countdown"`
	Destination Destination `json:"destination"`
	App         string      `json:"app"`
	DisplayName string      `json:"display_name"`
	Mobile      bool        `json:"mobile"`
}
