package shopping

import (
	"context"

	"github.com/avivm/shoplist/internal/model"
)

// RegisterUser records a user on first contact, or refreshes their
// profile fields on later contacts. New users start unauthorized; an
// admin authorizes them.
func (s *Service) RegisterUser(ctx context.Context, id int64, username, firstName, lastName, language string) (*model.User, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if language == "" {
		language = "en"
	}
	user, err := s.users.Upsert(ctx, id, username, firstName, lastName, language)
	return user, s.mapErr(err)
}

func (s *Service) GetUser(ctx context.Context, id int64) (*model.User, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	user, err := s.users.GetByID(ctx, id)
	return user, s.mapErr(err)
}

// SetAuthorized toggles a user's access to the bot. Admin only.
func (s *Service) SetAuthorized(ctx context.Context, adminID, targetID int64, authorized bool) error {
	return s.adminToggle(ctx, adminID, targetID, func(ctx context.Context) error {
		return s.users.SetAuthorized(ctx, targetID, authorized)
	})
}

// SetAdmin grants or revokes admin. Admin only.
func (s *Service) SetAdmin(ctx context.Context, adminID, targetID int64, admin bool) error {
	return s.adminToggle(ctx, adminID, targetID, func(ctx context.Context) error {
		return s.users.SetAdmin(ctx, targetID, admin)
	})
}

func (s *Service) adminToggle(ctx context.Context, adminID, targetID int64, apply func(context.Context) error) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	admin, err := s.users.GetByID(ctx, adminID)
	if err != nil {
		return s.mapErr(err)
	}
	if admin == nil {
		return &ReferenceError{Entity: "user", ID: adminID}
	}
	if !admin.IsAdmin {
		return ErrNotAuthorized
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return s.mapErr(err)
	}
	if target == nil {
		return &ReferenceError{Entity: "user", ID: targetID}
	}

	return s.mapErr(apply(ctx))
}

// BootstrapAdmins makes every id in the allow-list an authorized admin,
// creating placeholder users as needed. Called at startup with the
// configured admin ids.
func (s *Service) BootstrapAdmins(ctx context.Context, ids []int64) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	for _, id := range ids {
		existing, err := s.users.GetByID(ctx, id)
		if err != nil {
			return s.mapErr(err)
		}
		if existing == nil {
			if _, err := s.users.Upsert(ctx, id, "", "", "", "en"); err != nil {
				return s.mapErr(err)
			}
		}
		if err := s.users.SetAdmin(ctx, id, true); err != nil {
			return s.mapErr(err)
		}
		if err := s.users.SetAuthorized(ctx, id, true); err != nil {
			return s.mapErr(err)
		}
		s.logger.Info("admin bootstrapped", "user_id", id)
	}
	return nil
}

// Categories returns the category catalog: the seeded defaults plus
// every admin-approved custom category, in creation order.
func (s *Service) Categories(ctx context.Context) ([]model.CustomCategory, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	categories, err := s.categories.List(ctx)
	return categories, s.mapErr(err)
}
