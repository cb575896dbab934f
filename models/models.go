package models

// All lists every entity for migration, parents before children.
func All() []interface{} {
	return []interface{}{
		&Branch{},
		&Area{},
		&Table{},
		&Staff{},
		&MenuCategory{},
		&MenuItem{},
		&MenuPortion{},
		&TableSession{},
		&CustomerProfile{},
		&Customer{},
		&OtpRequest{},
		&Order{},
		&OrderItem{},
		&Kot{},
	}
}
