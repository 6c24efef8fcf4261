package services

// Scope - контекст доступа запроса: текущий пользователь и активный вид спорта.
// Нулевое значение поля означает "не задано".
type Scope struct {
	UserID  int
	SportID int
}

func (s Scope) RequireUser() error {
	if s.UserID == 0 {
		return ErrUnauthenticated
	}
	return nil
}

func (s Scope) RequireSport() error {
	if err := s.RequireUser(); err != nil {
		return err
	}
	if s.SportID == 0 {
		return ErrNoActiveSport
	}
	return nil
}

// CheckSport allows access only to entities of the active sport.
func (s Scope) CheckSport(ownerSportID int) error {
	if err := s.RequireSport(); err != nil {
		return err
	}
	if ownerSportID != s.SportID {
		return ErrForbidden
	}
	return nil
}

// CheckUser allows access only to entities owned by the current user.
func (s Scope) CheckUser(ownerUserID int) error {
	if err := s.RequireUser(); err != nil {
		return err
	}
	if ownerUserID != s.UserID {
		return ErrForbidden
	}
	return nil
}
