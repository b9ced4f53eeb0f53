package entity

// CheckoutRequest is built per checkout attempt and never persisted.
type CheckoutRequest struct {
	App                string `json:"app"`
	UserID             string `json:"user_id"`
	UserEmail          string `json:"user_email"`
	ExistingCustomerID string `json:"existing_customer_id,omitempty"`
}

// CheckoutSession is the provider-hosted session the browser is handed
// off to.
type CheckoutSession struct {
	URL string `json:"url"`
}

// PortalSession is the provider-hosted page where an existing customer
// manages their subscription.
type PortalSession struct {
	URL string `json:"url"`
}

// RetryableState is the terminal page state of one failed or canceled
// checkout attempt. It always offers a fresh retry entry point; a retry is
// a new session, not a resume.
type RetryableState struct {
	State        string `json:"state"` // "canceled" or "error"
	App          string `json:"app"`
	DisplayName  string `json:"display_name"`
	Message      string `json:"message"`
	RetryURL     string `json:"retry_url"`
	MonthlyPrice string `json:"monthly_price,omitempty"`
}
