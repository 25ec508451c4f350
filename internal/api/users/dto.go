package users

import (
	"time"

	"tenanthub/internal/domain/identity"
	"tenanthub/internal/domain/orgs"
)

// UserDetailResponse is the full profile view returned by GET /users/:id.
type UserDetailResponse struct {
	ID            string            `json:"id"`
	Username      string            `json:"username"`
	Email         *string           `json:"email"`
	IsEnabled     bool              `json:"isEnabled"`
	CreatedAt     time.Time         `json:"createdAt"`
	Profile       ProfileDTO        `json:"profile"`
	Organizations []OrganizationDTO `json:"organizations"`
}

type ProfileDTO struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	AvatarURL *string `json:"avatarUrl"`
}

type OrganizationDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	WebsiteURL  *string `json:"websiteUrl"`
	IsPersonal  bool    `json:"isPersonal"`
}

func buildProfileDTO(p *identity.UserProfile) ProfileDTO {
	if p == nil {
		return ProfileDTO{}
	}
	return ProfileDTO{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		AvatarURL: p.AvatarURL,
	}
}

func buildOrganizationDTOs(list []orgs.Organization) []OrganizationDTO {
	out := make([]OrganizationDTO, 0, len(list))
	for _, o := range list {
		out = append(out, OrganizationDTO{
			ID:          o.ID,
			Name:        o.Name,
			Description: o.Description,
			WebsiteURL:  o.WebsiteURL,
			IsPersonal:  o.IsPersonal,
		})
	}
	return out
}
