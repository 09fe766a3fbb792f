package service

import (
	"context"
	"errors"
	"time"

	"resa/internal/accounts/models"
	"resa/internal/credential"
	"resa/internal/validation/pipeline"
	id "resa/pkg/domain"
	dErrors "resa/pkg/domain-errors"
	"resa/pkg/platform/privacy"
	"resa/pkg/platform/sentinel"
	"resa/pkg/requestcontext"
)

// Login messages name the field that did not match.
const (
	MsgIncorrectPhone    = "Incorrect phone_number"
	MsgIncorrectPassword = "Incorrect password"
)

// Login verifies the phone number and password and issues an access token.
func (s *Service) Login(ctx context.Context, phoneNumber, password string) (string, error) {
	start := time.Now()
	outcome := "failed"
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveLogin(outcome, float64(time.Since(start).Milliseconds()))
		}
	}()

	user, err := s.users.FindByPhone(ctx, phoneNumber)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			outcome = "unknown_phone"
			s.logger.InfoContext(ctx, "login rejected: unknown phone",
				"phone", privacy.MaskPhone(phoneNumber),
				"request_id", requestcontext.RequestID(ctx),
			)
			return "", dErrors.New(dErrors.CodeBadRequest, MsgIncorrectPhone)
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	if !s.credentials.VerifyPassword(password, user.PasswordDigest) {
		outcome = "bad_password"
		s.logger.InfoContext(ctx, "login rejected: bad password",
			"user_id", user.ID,
			"phone", privacy.MaskPhone(phoneNumber),
			"request_id", requestcontext.RequestID(ctx),
		)
		return "", dErrors.New(dErrors.CodeBadRequest, MsgIncorrectPassword)
	}

	token, err := s.credentials.IssueToken(ctx, credential.Identity{
		UserID:      user.ID,
		Username:    user.Username,
		PhoneNumber: user.PhoneNumber,
		IsActive:    user.IsActive,
		IsStaff:     user.IsStaff,
	})
	if err != nil {
		return "", err
	}
	outcome = "ok"
	s.logger.InfoContext(ctx, "user logged in",
		"user_id", user.ID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return token, nil
}

// CreateUser validates and stores a user with its profile in one
// transaction. An image stored during validation is removed if the
// transaction does not commit.
func (s *Service) CreateUser(ctx context.Context, cmd CreateUserCommand) (*models.Profile, error) {
	var (
		imageRef *string
		created  *models.Profile
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		ub, err := s.validator.CreateUser(ctx, pipeline.CreateUserInput{
			Username:    cmd.Username,
			PhoneNumber: cmd.PhoneNumber,
			Password:    cmd.Password,
		})
		if err != nil {
			return err
		}
		pb, err := s.validator.CreateProfile(ctx, pipeline.CreateProfileInput{
			OwnerKey:   ub.PhoneNumber,
			ProvinceID: cmd.ProvinceID,
			CityID:     cmd.CityID,
			FirstName:  cmd.FirstName,
			LastName:   cmd.LastName,
			Image:      cmd.Image,
		})
		if err != nil {
			return err
		}
		imageRef = pb.ImageRef

		user := models.NewUser(ub.Username, ub.PhoneNumber, ub.PasswordDigest, requestcontext.Now(ctx))
		user.IsStaff = cmd.IsStaff
		if err := s.users.Create(ctx, user); err != nil {
			return wrapWriteErr(err, "failed to create user")
		}
		profile := &models.Profile{
			UserID:     user.ID,
			FirstName:  pb.FirstName,
			LastName:   pb.LastName,
			ImageRef:   pb.ImageRef,
			ProvinceID: pb.Province.ID,
			CityID:     pb.City.ID,
		}
		if err := s.profiles.Create(ctx, profile); err != nil {
			return wrapWriteErr(err, "failed to create profile")
		}
		created = profile
		return nil
	})
	if err != nil {
		s.discardAsset(ctx, imageRef)
		return nil, err
	}

	s.logger.InfoContext(ctx, "user created",
		"user_id", created.UserID,
		"profile_id", created.ID,
		"request_id", requestcontext.RequestID(ctx),
	)
	if s.metrics != nil {
		s.metrics.IncrementUsersCreated()
	}
	return created, nil
}

// UpdateUser applies a partial update to the user and profile behind
// profileID. Uniqueness checks exclude the user being updated.
func (s *Service) UpdateUser(ctx context.Context, profileID id.ProfileID, cmd UpdateUserCommand) (*models.Profile, error) {
	var (
		imageRef *string
		updated  *models.Profile
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		profile, err := s.profiles.FindByID(ctx, profileID)
		if err != nil {
			return wrapProfileErr(err, "failed to load profile")
		}
		user, err := s.users.FindByID(ctx, profile.UserID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile user")
		}

		uc, err := s.validator.UpdateUser(ctx, pipeline.UpdateUserInput{
			UserID:      user.ID,
			Username:    cmd.Username,
			PhoneNumber: cmd.PhoneNumber,
			Password:    cmd.Password,
		})
		if err != nil {
			return err
		}
		applyUserChanges(user, uc, cmd)

		pc, err := s.validator.UpdateProfile(ctx, pipeline.UpdateProfileInput{
			OwnerKey:          user.PhoneNumber,
			CurrentProvinceID: profile.ProvinceID,
			CurrentCityID:     profile.CityID,
			ProvinceID:        cmd.ProvinceID,
			CityID:            cmd.CityID,
			FirstName:         cmd.FirstName,
			LastName:          cmd.LastName,
			Image:             cmd.Image,
		})
		if err != nil {
			return err
		}
		imageRef = pc.ImageRef
		applyProfileChanges(profile, pc)

		user.Touch(requestcontext.Now(ctx))
		if err := s.users.Update(ctx, user); err != nil {
			return wrapWriteErr(err, "failed to update user")
		}
		if err := s.profiles.Update(ctx, profile); err != nil {
			return wrapWriteErr(err, "failed to update profile")
		}
		updated = profile
		return nil
	})
	if err != nil {
		s.discardAsset(ctx, imageRef)
		return nil, err
	}

	s.logger.InfoContext(ctx, "user updated",
		"profile_id", profileID,
		"request_id", requestcontext.RequestID(ctx),
	)
	if s.metrics != nil {
		s.metrics.IncrementUsersUpdated()
	}
	return updated, nil
}

// DeleteUser removes the profile and its user together.
func (s *Service) DeleteUser(ctx context.Context, profileID id.ProfileID) error {
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		profile, err := s.profiles.FindByID(ctx, profileID)
		if err != nil {
			return wrapProfileErr(err, "failed to load profile")
		}
		if err := s.profiles.Delete(ctx, profileID); err != nil {
			return wrapProfileErr(err, "failed to delete profile")
		}
		if err := s.users.Delete(ctx, profile.UserID); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete user")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "user deleted",
		"profile_id", profileID,
		"request_id", requestcontext.RequestID(ctx),
	)
	if s.metrics != nil {
		s.metrics.IncrementUsersDeleted()
	}
	return nil
}

func (s *Service) ListUsers(ctx context.Context, filter models.UserFilter) ([]*models.UserSummary, error) {
	list, err := s.directory.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list users")
	}
	return list, nil
}

func (s *Service) GetUserDetail(ctx context.Context, profileID id.ProfileID) (*models.UserDetail, error) {
	detail, err := s.directory.Get(ctx, profileID)
	if err != nil {
		return nil, wrapProfileErr(err, "failed to load profile")
	}
	return detail, nil
}

func applyUserChanges(u *models.User, c *pipeline.UserChanges, cmd UpdateUserCommand) {
	if c.Username != nil {
		u.Username = *c.Username
	}
	if c.PhoneNumber != nil {
		u.PhoneNumber = *c.PhoneNumber
	}
	if c.PasswordDigest != nil {
		u.PasswordDigest = *c.PasswordDigest
	}
	if cmd.IsActive != nil {
		u.IsActive = *cmd.IsActive
	}
	if cmd.IsStaff != nil {
		u.IsStaff = *cmd.IsStaff
	}
}

func applyProfileChanges(p *models.Profile, c *pipeline.ProfileChanges) {
	if c.Province != nil {
		p.ProvinceID = c.Province.ID
	}
	if c.City != nil {
		p.CityID = c.City.ID
	}
	if c.FirstName != nil {
		p.FirstName = c.FirstName
	}
	if c.LastName != nil {
		p.LastName = c.LastName
	}
	if c.ImageRef != nil {
		p.ImageRef = c.ImageRef
	}
}
