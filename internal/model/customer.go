package model

// Customer is customer model entity. Customers are registered once at
// ingestion time and never change afterwards.
type Customer struct {
	ID    string `json:"id" bson:"_id,omitempty"`
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
	Phone string `json:"phone" bson:"phone"`
}
