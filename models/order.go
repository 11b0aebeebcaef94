package models

// Order repräsentiert eine Smoothie-Bestellung. Sie wird nur angehängt,
// nie aktualisiert oder gelöscht; ID und Zeitstempel vergibt die Datenbank, falls überhaupt.
// Die Zieltabelle kommt aus ORDERS_TABLE, siehe services.OrderService.
type Order struct {
	Ingredients string `json:"ingredients" gorm:"column:ingredients"`
	NameOnOrder string `json:"name_on_order" gorm:"column:name_on_order"`
}
