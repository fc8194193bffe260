package amqp

import (
	"encoding/json"
	"time"
)

// BudgetAlertMessage announces a budget that crossed its limit during an
// evaluation pass. Consumers fetch the full budget from the ledger; the
// message carries only identifiers and the figures that triggered it.
type BudgetAlertMessage struct {
	BudgetID   int64     `json:"budget_id"`
	CategoryID int64     `json:"category_id"`
	Spent      string    `json:"spent"`
	Limit      string    `json:"limit"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewBudgetAlertMessage(budgetID, categoryID int64, spent, limit string) *BudgetAlertMessage {
	return &BudgetAlertMessage{
		BudgetID:   budgetID,
		CategoryID: categoryID,
		Spent:      spent,
		Limit:      limit,
		Timestamp:  time.Now(),
	}
}

func (m *BudgetAlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func BudgetAlertMessageFromJSON(data []byte) (*BudgetAlertMessage, error) {
	var msg BudgetAlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// GoalCompletedMessage fires once, on the transfer that crosses a goal's
// target from below.
type GoalCompletedMessage struct {
	GoalID    int64     `json:"goal_id"`
	GoalName  string    `json:"goal_name"`
	Target    string    `json:"target"`
	Timestamp time.Time `json:"timestamp"`
}

func NewGoalCompletedMessage(goalID int64, name, target string) *GoalCompletedMessage {
	return &GoalCompletedMessage{
		GoalID:    goalID,
		GoalName:  name,
		Target:    target,
		Timestamp: time.Now(),
	}
}

func (m *GoalCompletedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func GoalCompletedMessageFromJSON(data []byte) (*GoalCompletedMessage, error) {
	var msg GoalCompletedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
