// Package adapters はusersフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	authentity "shop_backend/internal/feature/auth/domain/entity"
	"shop_backend/internal/feature/users/domain"
	"shop_backend/internal/feature/users/usecase"
)

// userAdminMySQL はUserAdminRepositoryインターフェースのMySQL実装です。
// authフィーチャーと同じusersテーブルを操作します。
type userAdminMySQL struct {
	db *gorm.DB
}

var _ usecase.UserAdminRepository = (*userAdminMySQL)(nil)

// NewUserAdminMySQL は指定されたgorm.DB接続でuserAdminMySQLの新しいインスタンスを生成します。
func NewUserAdminMySQL(db *gorm.DB) *userAdminMySQL {
	return &userAdminMySQL{db: db}
}

// FindPage は作成日時の降順でユーザーのページを取得します。
func (r *userAdminMySQL) FindPage(ctx context.Context, page, limit int) ([]authentity.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&authentity.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []authentity.User
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// FindByEmail はメールアドレスでユーザーを取得します。
func (r *userAdminMySQL) FindByEmail(ctx context.Context, email string) (*authentity.User, error) {
	var u authentity.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// UpdateEmail はユーザーのメールアドレスを変更します。
// 新しいメールアドレスが既存アカウントと衝突する場合、domain.ErrEmailTakenを返します。
func (r *userAdminMySQL) UpdateEmail(ctx context.Context, email, newEmail string) (*authentity.User, error) {
	user, err := r.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Model(user).Update("email", newEmail).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}
	return r.FindByEmail(ctx, newEmail)
}

// UpdateRole はユーザーのロールを変更します。
func (r *userAdminMySQL) UpdateRole(ctx context.Context, email, role string) (*authentity.User, error) {
	user, err := r.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Model(user).Update("role", role).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// UpdatePassword はハッシュ化済みの新パスワードを保存します。
func (r *userAdminMySQL) UpdatePassword(ctx context.Context, email, hashedPassword string) error {
	res := r.db.WithContext(ctx).Model(&authentity.User{}).
		Where("email = ?", email).
		Update("password", hashedPassword)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Delete はユーザーを削除し、削除したユーザーを返します。
func (r *userAdminMySQL) Delete(ctx context.Context, email string) (*authentity.User, error) {
	user, err := r.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Delete(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// isDuplicateKey はユニークキー重複エラーかを判定します。
// MySQLエラー1062に加え、テストで使用するSQLiteの重複エラーも検出します。
func isDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
