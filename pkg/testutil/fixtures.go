package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	accountsmodels "resa/internal/accounts/models"
	geomodels "resa/internal/geo/models"
	id "resa/pkg/domain"
)

// FixedTime is the creation time stamped on built users.
var FixedTime = time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC)

// UserBuilder provides a fluent interface for building test users.
type UserBuilder struct {
	user *accountsmodels.User
}

// NewUserBuilder returns an active, non-staff user with a unique-looking
// username and phone derived from seq.
func NewUserBuilder(seq int) *UserBuilder {
	return &UserBuilder{
		user: accountsmodels.NewUser(
			fmt.Sprintf("user%d", seq),
			fmt.Sprintf("0912%07d", seq),
			"digest",
			FixedTime,
		),
	}
}

func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.user.Username = username
	return b
}

func (b *UserBuilder) WithPhone(phone string) *UserBuilder {
	b.user.PhoneNumber = phone
	return b
}

func (b *UserBuilder) WithDigest(digest string) *UserBuilder {
	b.user.PasswordDigest = digest
	return b
}

func (b *UserBuilder) Staff() *UserBuilder {
	b.user.IsStaff = true
	return b
}

func (b *UserBuilder) Inactive() *UserBuilder {
	b.user.IsActive = false
	return b
}

func (b *UserBuilder) Build() *accountsmodels.User {
	u := *b.user
	return &u
}

// ProfileBuilder provides a fluent interface for building test profiles.
type ProfileBuilder struct {
	profile *accountsmodels.Profile
}

func NewProfileBuilder(userID id.UserID, provinceID id.ProvinceID, cityID id.CityID) *ProfileBuilder {
	return &ProfileBuilder{
		profile: &accountsmodels.Profile{UserID: userID, ProvinceID: provinceID, CityID: cityID},
	}
}

func (b *ProfileBuilder) WithName(first, last string) *ProfileBuilder {
	b.profile.FirstName = &first
	b.profile.LastName = &last
	return b
}

func (b *ProfileBuilder) WithImage(ref string) *ProfileBuilder {
	b.profile.ImageRef = &ref
	return b
}

func (b *ProfileBuilder) Build() *accountsmodels.Profile {
	p := *b.profile
	return &p
}

// ProvinceCreator and CityCreator match the geo stores' Create methods.
type (
	ProvinceCreator interface {
		Create(ctx context.Context, p *geomodels.Province) error
	}
	CityCreator interface {
		Create(ctx context.Context, c *geomodels.City) error
	}
)

// SeedGeo creates a province and one city in it and fails the test on error.
func SeedGeo(t testing.TB, provinces ProvinceCreator, cities CityCreator, province, city string) (*geomodels.Province, *geomodels.City) {
	t.Helper()
	ctx := context.Background()
	p := &geomodels.Province{Name: province}
	if err := provinces.Create(ctx, p); err != nil {
		t.Fatalf("SeedGeo province: %v", err)
	}
	c := &geomodels.City{Name: city, ProvinceID: p.ID}
	if err := cities.Create(ctx, c); err != nil {
		t.Fatalf("SeedGeo city: %v", err)
	}
	return p, c
}
