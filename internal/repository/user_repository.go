package repository

import (
    "context"

    "gorm.io/gorm"

    "github.com/d60-Lab/feedsync/internal/model"
)

type UserRepository interface {
    Create(ctx context.Context, user *model.User) error
    ByID(ctx context.Context, id int64) (*model.User, error)
    ByLoginID(ctx context.Context, loginID string) (*model.User, error)
    // PageByIDDesc 按ID倒序分页扫描（含软删除行），hasNext 驱动全量重建循环
    PageByIDDesc(ctx context.Context, page, size int) ([]model.User, bool, error)
}

type userRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepository{db: db} }

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
    return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) ByID(ctx context.Context, id int64) (*model.User, error) {
    var u model.User
    if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
        return nil, err
    }
    return &u, nil
}

func (r *userRepository) ByLoginID(ctx context.Context, loginID string) (*model.User, error) {
    var u model.User
    if err := r.db.WithContext(ctx).Where("login_id = ?", loginID).First(&u).Error; err != nil {
        return nil, err
    }
    return &u, nil
}

func (r *userRepository) PageByIDDesc(ctx context.Context, page, size int) ([]model.User, bool, error) {
    if page < 1 { page = 1 }
    if size <= 0 { size = 100 }
    var users []model.User
    // 多取一条探测下一页
    err := r.db.WithContext(ctx).Unscoped().
        Order("id DESC").
        Offset((page - 1) * size).
        Limit(size + 1).
        Find(&users).Error
    if err != nil {
        return nil, false, err
    }
    hasNext := len(users) > size
    if hasNext {
        users = users[:size]
    }
    return users, hasNext, nil
}
