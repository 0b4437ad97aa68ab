package mapper

import (
	"github.com/AlibekovAA/book-reviews/internal/common/dto"
	userdomain "github.com/AlibekovAA/book-reviews/internal/user/domain"
)

func ProfileToDTO(profile userdomain.Profile) dto.User {
	return dto.User{
		ID:        string(profile.ID),
		Username:  profile.Username,
		Email:     profile.Email,
		CreatedAt: profile.CreatedAt,
		UpdatedAt: profile.UpdatedAt,
	}
}

func AuthorToDTO(id userdomain.ID, username string) dto.Author {
	return dto.Author{
		ID:       string(id),
		Username: username,
	}
}
