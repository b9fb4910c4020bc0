package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysOpr{},
	// Catalog
	&Category{},
	&Product{},
	// Chat
	&Conversation{},
}
