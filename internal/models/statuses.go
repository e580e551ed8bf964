package models

type UserStatus string
type UserRole string
type BookingStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"

	UserRoleClient  UserRole = "client"
	UserRoleStylist UserRole = "stylist"
	UserRoleAdmin   UserRole = "admin"

	BookingStatusPending   BookingStatus = "pending"
	BookingStatusAccepted  BookingStatus = "accepted"
	BookingStatusDeclined  BookingStatus = "declined"
	BookingStatusCompleted BookingStatus = "completed"
)

// bookingTransitions - таблица допустимых переходов статуса заявки.
// declined и completed терминальны.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:  {BookingStatusAccepted, BookingStatusDeclined},
	BookingStatusAccepted: {BookingStatusCompleted},
}

// IsValid проверяет, что статус заявки известен
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusAccepted, BookingStatusDeclined, BookingStatusCompleted:
		return true
	default:
		return false
	}
}

// IsTerminal сообщает, возможен ли еще хоть один переход из статуса
func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

// CanTransitionTo проверяет допустимость перехода s -> next
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
