package models

// All lists every model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Customer{},
		&DeliveryPerson{},
		&MenuItem{},
		&Order{},
		&OrderSequence{},
		&OrderItem{},
		&OrderItemComplement{},
		&Printer{},
		&Configuration{},
	}
}
