package types

// SignInRequest is the body posted to the identity toolkit accounts:signUp &
// accounts:signInWithCustomToken endpoints. Token is only set for the custom
// token exchange; an empty body with ReturnSecureToken is an anonymous sign-up.
// https://cloud.google.com/identity-platform/docs/use-rest-api
type SignInRequest struct {
	Token             string `json:"token,omitempty"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

// SignInResponse represents a successful sign-in payload
type SignInResponse struct {
	Kind      string `json:"kind,omitempty"`
	IdToken   string `json:"idToken"`
	ExpiresIn string `json:"expiresIn,omitempty"` // seconds, as a string
	LocalId   string `json:"localId,omitempty"`
	IsNewUser bool   `json:"isNewUser,omitempty"`
}

// ErrorResponse is the error envelope returned by the identity toolkit
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code    int           `json:"code"`
	Message string        `json:"message"`
	Errors  []ErrorDetail `json:"errors,omitempty"`
}

type ErrorDetail struct {
	Message string `json:"message"`
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
}
