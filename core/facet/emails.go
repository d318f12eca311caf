package facet

import (
	"fmt"
	"sort"
)

const (
	// EmailsKey is the facet key of EmailList.
	EmailsKey = "Emails"
	// DefaultEmailLabel labels the first address of a new list.
	DefaultEmailLabel = "default"
)

// EmailAddress is one address of a contact.
type EmailAddress struct {
	SmtpAddress string `json:"smtp_address"`
	Validated   bool   `json:"validated"`
}

// EmailList holds the labelled addresses of a contact. PreferredKey names the
// entry that is the preferred address.
type EmailList struct {
	Entries      map[string]EmailAddress `json:"entries"`
	PreferredKey string                  `json:"preferred_key"`
}

// FacetKey implements Facet.
func (EmailList) FacetKey() string { return EmailsKey }

// NewEmailList returns a list holding address as its only, preferred entry.
func NewEmailList(address EmailAddress, label string) EmailList {
	return EmailList{
		Entries:      map[string]EmailAddress{label: address},
		PreferredKey: label,
	}
}

// Preferred returns the preferred address.
func (l EmailList) Preferred() (EmailAddress, bool) {
	if l.PreferredKey == "" {
		return EmailAddress{}, false
	}
	e, ok := l.Entries[l.PreferredKey]
	return e, ok
}

// Labels returns the entry labels in sorted order.
func (l EmailList) Labels() []string {
	labels := make([]string, 0, len(l.Entries))
	for label := range l.Entries {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// SetPreferred makes address the preferred entry. An entry holding the same
// address keeps its label; otherwise the address is added under a free label.
// No other entry is changed or removed.
func (l *EmailList) SetPreferred(address EmailAddress) {
	if l.Entries == nil {
		l.Entries = make(map[string]EmailAddress)
	}
	for _, label := range l.Labels() {
		if l.Entries[label].SmtpAddress == address.SmtpAddress {
			l.Entries[label] = address
			l.PreferredKey = label
			return
		}
	}
	label := l.freeLabel()
	l.Entries[label] = address
	l.PreferredKey = label
}

func (l EmailList) freeLabel() string {
	if _, taken := l.Entries[DefaultEmailLabel]; !taken {
		return DefaultEmailLabel
	}
	for n := 1; ; n++ {
		label := fmt.Sprintf("alternate%d", n)
		if _, taken := l.Entries[label]; !taken {
			return label
		}
	}
}
