package facet

// PersonalInfoKey is the facet key of PersonalInfo.
const PersonalInfoKey = "Personal"

// PersonalInfo holds the personal information of a contact. Unset fields are nil.
type PersonalInfo struct {
	Title             *string `json:"title,omitempty"`
	FirstName         *string `json:"first_name,omitempty"`
	MiddleName        *string `json:"middle_name,omitempty"`
	LastName          *string `json:"last_name,omitempty"`
	Nickname          *string `json:"nickname,omitempty"`
	Gender            *string `json:"gender,omitempty"`
	JobTitle          *string `json:"job_title,omitempty"`
	PreferredLanguage *string `json:"preferred_language,omitempty"`
	Birthdate         *string `json:"birthdate,omitempty"`
}

// FacetKey implements Facet.
func (PersonalInfo) FacetKey() string { return PersonalInfoKey }

// SetName overwrites the first and last name and leaves every other field untouched.
func (p *PersonalInfo) SetName(firstName, lastName string) {
	p.FirstName = &firstName
	p.LastName = &lastName
}
