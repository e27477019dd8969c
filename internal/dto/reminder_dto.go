package dto

type ReminderResponse struct {
	ID            string `json:"id"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	MedicineName  string `json:"medicine_name"`
	DueDate       string `json:"due_date"` // YYYY-MM-DD
	Status        string `json:"status"`
}
