package httpapi

import (
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minPasswordLength = 8
	defaultPerPage    = 10
	maxPerPage        = 100
)

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type createUserRequest struct {
	registerRequest
	Role     string  `json:"role"`
	TenantID *string `json:"tenantId"`
}

type updateUserRequest struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	TenantID  *string `json:"tenantId"`
}

type tenantRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

func (req *registerRequest) validate() map[string]string {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)

	fields := map[string]string{}
	if req.FirstName == "" {
		fields["firstName"] = "first name is required"
	}
	if req.LastName == "" {
		fields["lastName"] = "last name is required"
	}
	if !validEmail(req.Email) {
		fields["email"] = "invalid email format"
	}
	if msg := validatePassword(req.Password); msg != "" {
		fields["password"] = msg
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func (req *loginRequest) validate() map[string]string {
	req.Email = strings.TrimSpace(req.Email)

	fields := map[string]string{}
	if !validEmail(req.Email) {
		fields["email"] = "invalid email format"
	}
	if req.Password == "" {
		fields["password"] = "password is required"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func (req *tenantRequest) validate() map[string]string {
	req.Name = strings.TrimSpace(req.Name)
	req.Address = strings.TrimSpace(req.Address)

	fields := map[string]string{}
	if req.Name == "" || len(req.Name) > 100 {
		fields["name"] = "name is required and must not exceed 100 characters"
	}
	if req.Address == "" || len(req.Address) > 250 {
		fields["address"] = "address is required and must not exceed 250 characters"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func validEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// validatePassword enforces the registration policy: minimum length plus at
// least one uppercase letter, one lowercase letter, and one digit.
func validatePassword(password string) string {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return "password must be at least 8 characters long"
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return "password must contain at least one uppercase letter, one lowercase letter, and one number"
	}
	return ""
}

// listParams extracts q, currentPage and perPage query parameters with
// bounded defaults.
func listParams(r *http.Request) (query string, page, perPage int) {
	q := r.URL.Query()
	query = strings.TrimSpace(q.Get("q"))

	page, _ = strconv.Atoi(q.Get("currentPage"))
	if page < 1 {
		page = 1
	}
	perPage, _ = strconv.Atoi(q.Get("perPage"))
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return query, page, perPage
}
