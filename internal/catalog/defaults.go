package catalog

import "github.com/jstiltner/document-understanding/internal/model"

// DefaultFields returns the seed catalog for insurance denial and prior
// authorization documents. Seven required fields, thirteen optional.
func DefaultFields() []model.FieldDefinition {
	return []model.FieldDefinition{
		{
			Name:        "facility",
			DisplayName: "Facility",
			Description: "Healthcare facility name",
			Type:        model.FieldTypeText,
			Required:    true,
			Hints:       model.ExtractionHints{Keywords: []string{"facility", "hospital", "clinic"}, Context: "header"},
			Active:      true,
		},
		{
			Name:        "reference_number",
			DisplayName: "Reference Number",
			Description: "Document reference or case number",
			Type:        model.FieldTypeText,
			Required:    true,
			Hints:       model.ExtractionHints{Keywords: []string{"reference", "case number", "ref"}, Context: "header"},
			Active:      true,
		},
		{
			Name:        "patient_last_name",
			DisplayName: "Patient Last Name",
			Description: "Patient's last name",
			Type:        model.FieldTypeText,
			Required:    true,
			Hints:       model.ExtractionHints{Keywords: []string{"last name", "surname"}, Context: "patient_info"},
			Active:      true,
		},
		{
			Name:        "patient_first_name",
			DisplayName: "Patient First Name",
			Description: "Patient's first name",
			Type:        model.FieldTypeText,
			Required:    true,
			Hints:       model.ExtractionHints{Keywords: []string{"first name", "given name"}, Context: "patient_info"},
			Active:      true,
		},
		{
			Name:              "member_id",
			DisplayName:       "Member ID",
			Description:       "Insurance member identification number",
			Type:              model.FieldTypeText,
			Required:          true,
			ValidationPattern: `^[A-Z0-9]{6,20}$`,
			Hints:             model.ExtractionHints{Keywords: []string{"member id", "member number", "id"}, Context: "insurance"},
			Active:            true,
		},
		{
			Name:              "date_of_birth",
			DisplayName:       "Date of Birth",
			Description:       "Patient's date of birth",
			Type:              model.FieldTypeDate,
			Required:          true,
			ValidationPattern: `^\d{1,2}/\d{1,2}/\d{4}$`,
			Hints:             model.ExtractionHints{Keywords: []string{"dob", "date of birth", "birth date"}, Context: "patient_info"},
			Active:            true,
		},
		{
			Name:        "denial_reason",
			DisplayName: "Denial Reason",
			Description: "Reason for authorization denial",
			Type:        model.FieldTypeText,
			Required:    true,
			Hints:       model.ExtractionHints{Keywords: []string{"denial", "denied", "reason"}, Context: "decision"},
			Active:      true,
		},
		{
			Name:        "payer",
			DisplayName: "Payer",
			Description: "Insurance payer/company name",
			Type:        model.FieldTypeText,
			Hints:       model.ExtractionHints{Keywords: []string{"payer", "insurance", "plan"}, Context: "insurance"},
			Active:      true,
		},
		{
			Name:        "authorization_number",
			DisplayName: "Authorization Number",
			Description: "Prior authorization number",
			Type:        model.FieldTypeText,
			Hints:       model.ExtractionHints{Keywords: []string{"authorization", "auth number"}, Context: "insurance"},
			Active:      true,
		},
		{
			Name:        "account_number",
			DisplayName: "Account Number",
			Description: "Patient account number",
			Type:        model.FieldTypeText,
			Hints:       model.ExtractionHints{Keywords: []string{"account", "acct"}, Context: "patient_info"},
			Active:      true,
		},
		{
			Name:        "working_drg",
			DisplayName: "Working DRG",
			Description: "Diagnosis Related Group code",
			Type:        model.FieldTypeText,
			Hints:       model.ExtractionHints{Keywords: []string{"drg", "diagnosis"}, Context: "medical"},
			Active:      true,
		},
		{
			Name:        "third_party_reviewer",
			DisplayName: "3rd Party Reviewer",
			Description: "Third party review organization",
			Type:        model.FieldTypeText,
			Hints:       model.ExtractionHints{Keywords: []string{"reviewer", "review organization"}, Context: "review"},
			Active:      true,
		},
		{
			Name:        "level_of_care",
			DisplayName: "Level of Care",
			Description: "Required level of care",
			Type:        model.FieldTypeText,
			Hints:       model.ExtractionHints{Keywords: []string{"level of care", "care level"}, Context: "medical"},
			Active:      true,
		},
		{
			Name:        "service",
			DisplayName: "Service",
			Description: "Medical service or procedure",
			Type:        model.FieldTypeText,
			Hints:       model.ExtractionHints{Keywords: []string{"service", "procedure"}, Context: "medical"},
			Active:      true,
		},
		{
			Name:        "clinical_care_guidelines",
			DisplayName: "Clinical Care Guidelines",
			Description: "Applied clinical guidelines",
			Type:        model.FieldTypeText,
			Hints:       model.ExtractionHints{Keywords: []string{"guidelines", "clinical"}, Context: "medical"},
			Active:      true,
		},
		{
			Name:              "provider_tin",
			DisplayName:       "Provider TIN",
			Description:       "Provider Tax Identification Number",
			Type:              model.FieldTypeText,
			ValidationPattern: `^\d{2}-\d{7}$`,
			Hints:             model.ExtractionHints{Keywords: []string{"tin", "tax id"}, Context: "provider"},
			Active:            true,
		},
		{
			Name:        "case_manager",
			DisplayName: "Case Manager",
			Description: "Assigned case manager name",
			Type:        model.FieldTypeText,
			Hints:       model.ExtractionHints{Keywords: []string{"case manager", "manager"}, Context: "contact"},
			Active:      true,
		},
		{
			Name:              "peer_to_peer_email",
			DisplayName:       "Peer to Peer Email",
			Description:       "Email for peer-to-peer review",
			Type:              model.FieldTypeEmail,
			ValidationPattern: `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`,
			Hints:             model.ExtractionHints{Keywords: []string{"peer", "email"}, Context: "contact"},
			Active:            true,
		},
		{
			Name:              "peer_to_peer_phone",
			DisplayName:       "Peer to Peer Phone",
			Description:       "Phone number for peer-to-peer review",
			Type:              model.FieldTypePhone,
			ValidationPattern: `^\(\d{3}\) \d{3}-\d{4}$`,
			Hints:             model.ExtractionHints{Keywords: []string{"peer", "phone"}, Context: "contact"},
			Active:            true,
		},
		{
			Name:              "peer_to_peer_fax",
			DisplayName:       "Peer to Peer Fax",
			Description:       "Fax number for peer-to-peer review",
			Type:              model.FieldTypePhone,
			ValidationPattern: `^\(\d{3}\) \d{3}-\d{4}$`,
			Hints:             model.ExtractionHints{Keywords: []string{"peer", "fax"}, Context: "contact"},
			Active:            true,
		},
	}
}
