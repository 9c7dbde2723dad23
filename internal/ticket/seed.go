package ticket

func pct(v int) *int { return &v }

// DefaultMetrics are the headline figures the board starts with.
func DefaultMetrics() SystemMetrics {
	return SystemMetrics{
		ApplicationsCompleted:  47,
		AvgProcessingTime:      "2.3h",
		ManualInterventions:    12,
		ExceptionsAutoResolved: 34,
	}
}

// Seed returns the built-in demo tickets, normalized and in board order.
func Seed() []Ticket {
	tickets := []Ticket{
		{
			ID:          "ON-2025-0450",
			ClientName:  "Global Health Trust",
			Color:       "blue",
			AccountType: AccountTrust,
			Stage:       "Doc Collection",
			Status:      "Missing docs",
			Exceptions:  1,
			SLAHours:    6,
			Progress:    3,
			TotalSteps:  8,
			Documents: []Document{
				{ID: "1", Name: "Trust Agreement", Type: "pdf", Required: true, Validated: false},
				{ID: "2", Name: "Tax ID Form", Type: "pdf", Required: true, Validated: true},
			},
			Emails: []Email{
				{ID: "1", From: "advisor@uspb.com", Subject: "Missing Trust Documentation", Date: "2025-01-10", Type: EmailAdvisor},
			},
			SOR: SORRecord{
				Name:         "Global Health Trust",
				AccountType:  "Trust",
				EntityName:   "Global Health Trust",
				ComplianceID: "GHT-4502",
			},
			ExtractedFields: []ExtractedField{
				{FieldName: "Client Core Information", Value: "Yan Luo Living Trust", SourceDocument: "Trust_Agreement.pdf", Confidence: 99},
				{FieldName: "Client Addresses", Value: "123 Trust Avenue, San Francisco, CA 94102", SourceDocument: "Trust_Agreement.pdf", Confidence: 97},
				{FieldName: "Tax Info", Value: "EIN: 04-5558529, UCN: 0299372527", SourceDocument: "Tax_ID_Form.pdf", Confidence: 98},
				{FieldName: "Products", Value: "Revocable Trust Account", SourceDocument: "Trust_Agreement.pdf", Confidence: 98},
				{FieldName: "Investment Suitability", Value: "Conservative Risk Profile", SourceDocument: "Suitability_Form.pdf", Confidence: 93},
				{FieldName: "Investment Experience", Value: "10+ years institutional investing", SourceDocument: "Suitability_Form.pdf", Confidence: 94},
				{FieldName: "Marital Information & Dependents", Value: "Single, No Dependents", SourceDocument: "Personal_Info_Form.pdf", Confidence: 96},
				{FieldName: "Account Level Suitability", Value: "High Net Worth Individual", SourceDocument: "Suitability_Form.pdf", Confidence: 98},
				{FieldName: "Authorized Contact", Value: "Yan Luo (Primary), Sarah Chen (Secondary)", SourceDocument: "Authorization_Form.pdf", Confidence: 98},
			},
			StageStatuses: map[string]StageStatus{
				"doc-validation": StageException,
			},
		},
		{
			ID:          "ON-2025-0455",
			ClientName:  "Elisa Kim",
			Color:       "green",
			AccountType: AccountCashMgmt,
			Stage:       "AI Extraction",
			Status:      "Escalated",
			Exceptions:  1,
			SLAHours:    8,
			Progress:    4,
			TotalSteps:  8,
			Documents: []Document{
				{ID: "1", Name: "Passport.pdf", Type: "pdf", Required: true, Validated: true, Confidence: pct(95)},
				{ID: "2", Name: "DriverLicense.pdf", Type: "pdf", Required: true, Validated: true, Confidence: pct(88)},
				{ID: "3", Name: "W2.pdf", Type: "pdf", Required: true, Validated: true, Confidence: pct(92)},
			},
			Emails: []Email{
				{ID: "1", From: "advisor@uspb.com", Subject: "DOB Verification Required", Date: "2025-01-10", Type: EmailAdvisor},
				{ID: "2", From: "elisa.kim@email.com", Subject: "Re: DOB Verification", Date: "2025-01-10", Type: EmailClient},
			},
			SOR: SORRecord{
				Name:        "Elisa Kim",
				DOB:         "08/16/1984",
				AccountType: "Cash Mgmt",
				Address:     "400 West St, New York, NY",
			},
			ExtractedFields: []ExtractedField{
				{FieldName: "Last Name", Value: "Kim", SourceDocument: "Passport.pdf", Confidence: 96, Validated: true},
				{FieldName: "First Name", Value: "Elisa", SourceDocument: "Passport.pdf", Confidence: 94, Validated: true},
				{FieldName: "DOB", Value: "08/14/1984", SourceDocument: "Passport.pdf", Confidence: 89},
				{FieldName: "Address", Value: "400 West St, New York, NY", SourceDocument: "DriverLicense.pdf", Confidence: 91, Validated: true},
			},
			Suggestions: []AISuggestion{
				{
					ID:         "1",
					Type:       SuggestionWarning,
					Message:    "DOB mismatch detected: Extracted 08/14/1984 vs SOR 08/16/1984. Manual verification required.",
					Confidence: 89,
				},
			},
			StageStatuses: map[string]StageStatus{
				"doc-validation":   StageCompleted,
				"ai-extraction":    StageException,
				"field-validation": StageException,
				"sor-check":        StageException,
				"docusign-prefill": StageCompleted,
				"good-order":       StageCompleted,
				"workflow-entry":   StageCompleted,
			},
		},
		{
			ID:          "ON-2025-0456",
			ClientName:  "Devlin Patel",
			Color:       "yellow",
			AccountType: AccountInvestment,
			Stage:       "Document Validation",
			Status:      "Missing passport",
			Exceptions:  1,
			SLAHours:    5,
			Progress:    2,
			TotalSteps:  8,
			Documents: []Document{
				{ID: "1", Name: "DriverLicense.pdf", Type: "pdf", Required: true, Validated: true, Confidence: pct(94)},
				{ID: "2", Name: "W2.pdf", Type: "pdf", Required: true, Validated: true, Confidence: pct(88)},
				{ID: "3", Name: "Passport.pdf", Type: "pdf", Required: true, Validated: false, Confidence: pct(0)},
			},
			Emails: []Email{
				{ID: "1", From: "advisor@uspb.com", Subject: "KYC Documents Required", Date: "2025-01-09", Type: EmailAdvisor},
				{ID: "2", From: "devlin.patel@email.com", Subject: "Document Upload Question", Date: "2025-01-09", Type: EmailClient},
			},
			SOR: SORRecord{
				Name:        "Devlin Patel",
				DOB:         "04/11/1976",
				AccountType: "Investment",
			},
			Suggestions: []AISuggestion{
				{
					ID:         "1",
					Type:       SuggestionAction,
					Message:    "Client passport is missing — recommend reaching out to request document.",
					Action:     "draft_email",
					Confidence: 95,
				},
			},
			StageStatuses: map[string]StageStatus{
				"doc-validation":   StageException,
				"field-validation": StageException,
			},
		},
		{
			ID:          "ON-2025-0458",
			ClientName:  "Rachel Nunez",
			Color:       "green",
			AccountType: AccountInvestment,
			Stage:       "AI Extraction",
			Status:      "Low confidence",
			Exceptions:  1,
			SLAHours:    10,
			Progress:    4,
			TotalSteps:  8,
			Documents: []Document{
				{ID: "1", Name: "Passport.pdf", Type: "pdf", Required: true, Validated: true, Confidence: pct(85)},
				{ID: "2", Name: "DriverLicense.pdf", Type: "pdf", Required: true, Validated: true, Confidence: pct(78)},
				{ID: "3", Name: "1099.pdf", Type: "pdf", Required: true, Validated: true, Confidence: pct(65)},
			},
			Emails: []Email{
				{ID: "1", From: "advisor@uspb.com", Subject: "Income Verification", Date: "2025-01-10", Type: EmailAdvisor},
				{ID: "2", From: "rachel.nunez@email.com", Subject: "Updated Tax Documents", Date: "2025-01-10", Type: EmailClient},
			},
			SOR: SORRecord{
				Name:          "Rachel Nunez",
				Income:        "$182,000",
				AccountType:   "Investment",
				RiskTolerance: "Moderate",
			},
			ExtractedFields: []ExtractedField{
				{FieldName: "Income", Value: "$165,000", SourceDocument: "1099.pdf", Confidence: 65},
			},
			Suggestions: []AISuggestion{
				{
					ID:         "1",
					Type:       SuggestionWarning,
					Message:    "Low confidence income extraction (65%). Manual review recommended.",
					Confidence: 65,
				},
			},
			StageStatuses: map[string]StageStatus{
				"doc-validation":   StageCompleted,
				"ai-extraction":    StageException,
				"field-validation": StageException,
				"sor-check":        StageCompleted,
			},
		},
		{
			ID:          "ON-2025-0459",
			ClientName:  "Tyrell Systems",
			Color:       "red",
			AccountType: AccountCashMgmt,
			Stage:       "Final Approval",
			Status:      "Pending Approval",
			Exceptions:  0,
			SLAHours:    2,
			Progress:    7,
			TotalSteps:  8,
			Documents: []Document{
				{ID: "1", Name: "Passport.pdf", Type: "pdf", Required: true, Validated: true, Confidence: pct(96)},
				{ID: "2", Name: "W2.pdf", Type: "pdf", Required: true, Validated: true, Confidence: pct(94)},
				{ID: "3", Name: "TrustAgreement.pdf", Type: "pdf", Required: true, Validated: true, Confidence: pct(98)},
			},
			Emails: []Email{
				{ID: "1", From: "advisor@uspb.com", Subject: "Final Review Complete", Date: "2025-01-10", Type: EmailAdvisor},
			},
			SOR: SORRecord{
				Name:         "Tyrell Systems",
				AccountType:  "Cash Mgmt",
				EntityName:   "Tyrell Systems",
				ComplianceID: "TYS-8905",
			},
			StageStatuses: map[string]StageStatus{
				"doc-validation":   StageCompleted,
				"ai-extraction":    StageCompleted,
				"field-validation": StageCompleted,
				"sor-check":        StageCompleted,
				"docusign-prefill": StageCompleted,
				"good-order":       StageCompleted,
				"workflow-entry":   StageCompleted,
			},
		},
	}

	for i := range tickets {
		tickets[i].Normalize()
	}
	return tickets
}
