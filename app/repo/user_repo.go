package repo

import (
	"errors"
	"strings"

	"github.com/raghupathi321/Janagraha-sub000/app/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken   = errors.New("email already registered")
	ErrUserNotFound = errors.New("user not found")
)

type UserRepository interface {
	Create(user *model.User) error
	FindByEmail(email string) (*model.User, error)
	FindByUserID(id uuid.UUID) (*model.User, error)
	FindAll(page, limit int, search, sortBy, order string) ([]model.User, int64, error)
	Update(user *model.User) error
	ClearRefreshToken(userID uuid.UUID) error
	AddBlacklistToken(token model.BlacklistedToken) error
	IsTokenBlacklisted(token string) (bool, error)
}

type UserRepo struct {
	DB *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{DB: db}
}

var userSortWhitelist = map[string]bool{
	"created_at": true,
	"email":      true,
	"full_name":  true,
	"role":       true,
}

func (r *UserRepo) Create(user *model.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	err := r.DB.Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrEmailTaken
	}
	return err
}

func (r *UserRepo) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ? AND is_active = true", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) FindByUserID(id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.DB.Where("id = ? AND is_active = true", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) FindAll(page, limit int, search, sortBy, order string) ([]model.User, int64, error) {
	if !userSortWhitelist[sortBy] {
		sortBy = "created_at"
	}
	if order != "asc" && order != "desc" {
		order = "desc"
	}

	query := r.DB.Model(&model.User{}).Where("is_active = true")
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(email) LIKE ? OR LOWER(full_name) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.User
	err := query.Order(sortBy + " " + order).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *UserRepo) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepo) ClearRefreshToken(userID uuid.UUID) error {
	return r.DB.Model(&model.User{}).Where("id = ?", userID).Update("refresh_token", "").Error
}

func (r *UserRepo) AddBlacklistToken(token model.BlacklistedToken) error {
	return r.DB.Create(&token).Error
}

func (r *UserRepo) IsTokenBlacklisted(token string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.BlacklistedToken{}).Where("token = ?", token).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
