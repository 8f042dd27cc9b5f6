package repository

import (
	"github.com/Lidan4315/Ideku-sub000/internal/model"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) FindUserByUsername(username string) (*model.User, error) {
	var users []model.User
	result := r.db.Preload("Role").Where("username = ?", username).Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}
	if len(users) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &users[0], nil
}

func (r *UserRepository) FindUserByEmail(email string) (*model.User, error) {
	var users []model.User
	result := r.db.Preload("Role").Where("email = ?", email).Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}
	if len(users) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &users[0], nil
}

func (r *UserRepository) FindUserByID(id string) (*model.User, error) {
	var user model.User
	err := r.db.Preload("Role").Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) UpdateUser(user *model.User) error {
	return r.db.Save(user).Error
}

func (r *UserRepository) DeleteUser(id string) error {
	return r.db.Delete(&model.User{}, "id = ?", id).Error
}

func (r *UserRepository) ListUsers() ([]model.User, error) {
	var users []model.User
	err := r.db.Preload("Role").Order("username ASC").Find(&users).Error
	return users, err
}

// RoleNameOfUser 查询用户的有效角色名，角色缺失时回退为 Employee
func (r *UserRepository) RoleNameOfUser(username string) (model.RoleName, error) {
	user, err := r.FindUserByUsername(username)
	if err != nil {
		return "", err
	}
	if user.Role == nil {
		return model.RoleEmployee, nil
	}
	return user.Role.Name, nil
}
