package zoho

// tokenResponse is the payload returned by the OAuth token endpoint.
// Zoho reports some refresh failures with HTTP 200 and the error
// fields set, so both shapes live in one struct.
type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	TokenType        string `json:"token_type"`
	ExpiresIn        int    `json:"expires_in"`
	APIDomain        string `json:"api_domain"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// invoicesResponse wraps the invoice list returned by the Books API
type invoicesResponse struct {
	Code     int       `json:"code"`
	Message  string    `json:"message"`
	Invoices []Invoice `json:"invoices"`
}

// Invoice is a single invoice record exactly as returned by Zoho Books.
// The schema is not validated or transformed; callers get the parsed
// JSON object unchanged. The accessors below only read a few well-known
// keys for display and filtering.
type Invoice map[string]any

func (i Invoice) stringField(key string) string {
	if v, ok := i[key].(string); ok {
		return v
	}
	return ""
}

// InvoiceNumber returns the human-facing invoice number, if present
func (i Invoice) InvoiceNumber() string {
	return i.stringField("invoice_number")
}

// Status returns the invoice status, if present
func (i Invoice) Status() string {
	return i.stringField("status")
}

// CustomerName returns the customer name, if present
func (i Invoice) CustomerName() string {
	return i.stringField("customer_name")
}

// Date returns the invoice date (YYYY-MM-DD), if present
func (i Invoice) Date() string {
	return i.stringField("date")
}

// Total returns the invoice total, or 0 when absent. JSON numbers
// decode as float64.
func (i Invoice) Total() float64 {
	if v, ok := i["total"].(float64); ok {
		return v
	}
	return 0
}
