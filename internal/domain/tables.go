package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	// Quotes
	&QuoteSubmission{},
}
