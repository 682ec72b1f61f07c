// Package usecase はusersフィーチャー（管理者用ユーザー管理）のビジネスロジックを実装します。
package usecase

import (
	"context"
	"time"

	authentity "shop_backend/internal/feature/auth/domain/entity"
	"shop_backend/internal/feature/users/domain"
)

const (
	// DefaultPage はユーザー一覧のデフォルトページ番号です。
	DefaultPage = 1
	// DefaultLimit はユーザー一覧のデフォルト件数です。
	DefaultLimit = 10
	// MaxLimit は1ページあたりの最大件数です。
	MaxLimit = 100
)

// UserAdminRepository は管理者用ユーザー操作の永続化層を抽象化します。
// Goの慣例に従い、インターフェースはコンシューマー（usecase）が定義します。
type UserAdminRepository interface {
	// FindPage は作成日時の降順でユーザーのページを取得し、総件数を返します。
	FindPage(ctx context.Context, page, limit int) ([]authentity.User, int64, error)

	// FindByEmail はメールアドレスでユーザーを取得します。
	// 存在しない場合、domain.ErrUserNotFoundを返します。
	FindByEmail(ctx context.Context, email string) (*authentity.User, error)

	// UpdateEmail はユーザーのメールアドレスを変更し、更新後のユーザーを返します。
	// 新しいメールアドレスが既に使用されている場合、domain.ErrEmailTakenを返します。
	UpdateEmail(ctx context.Context, email, newEmail string) (*authentity.User, error)

	// UpdateRole はユーザーのロールを変更し、更新後のユーザーを返します。
	UpdateRole(ctx context.Context, email, role string) (*authentity.User, error)

	// UpdatePassword はハッシュ化済みの新パスワードを保存します。
	UpdatePassword(ctx context.Context, email, hashedPassword string) error

	// Delete はユーザーを削除し、削除したユーザーを返します。
	Delete(ctx context.Context, email string) (*authentity.User, error)
}

// PasswordHasher はパスワードのハッシュ化と検証を抽象化します。
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hashed, password string) bool
}

// UserPage はページネーション付きのユーザー一覧取得結果です。
type UserPage struct {
	Items      []authentity.User
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// DeletedUser は削除操作の結果です。
type DeletedUser struct {
	Email     string
	Role      string
	DeletedAt time.Time
}

// userUsecase は管理者用ユーザー管理のユースケースを実装します。
type userUsecase struct {
	users  UserAdminRepository
	hasher PasswordHasher
}

// NewUserUsecase はuserUsecaseの新しいインスタンスを生成します。
func NewUserUsecase(users UserAdminRepository, hasher PasswordHasher) *userUsecase {
	return &userUsecase{users: users, hasher: hasher}
}

// List はユーザーのページを新しい順で返します。パスワードはレスポンスに含まれません。
func (u *userUsecase) List(ctx context.Context, page, limit int) (*UserPage, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}

	items, total, err := u.users.FindPage(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &UserPage{Items: items, Total: total, Page: page, Limit: limit, TotalPages: totalPages}, nil
}

// UpdateEmail は対象ユーザーのメールアドレスを変更します。
// 衝突時はdomain.ErrEmailTaken、対象不在時はdomain.ErrUserNotFoundを返します。
func (u *userUsecase) UpdateEmail(ctx context.Context, email, newEmail string) (*authentity.User, error) {
	return u.users.UpdateEmail(ctx, email, newEmail)
}

// UpdateRole は対象ユーザーのロールを変更します。
// {user, admin}以外のロールはdomain.ErrInvalidRoleを返します。
func (u *userUsecase) UpdateRole(ctx context.Context, email, role string) (*authentity.User, error) {
	if !authentity.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}
	return u.users.UpdateRole(ctx, email, role)
}

// ChangePassword は対象ユーザーのパスワードを再ハッシュして保存します。
// 新パスワードが現在のハッシュと一致する場合、domain.ErrSamePasswordを返します。
func (u *userUsecase) ChangePassword(ctx context.Context, email, newPassword string) error {
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	if u.hasher.Compare(user.Password, newPassword) {
		return domain.ErrSamePassword
	}

	hashed, err := u.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	return u.users.UpdatePassword(ctx, email, hashed)
}

// Delete は対象ユーザーを削除します。リクエストした管理者自身の削除は
// domain.ErrSelfDeletionで拒否されます。
func (u *userUsecase) Delete(ctx context.Context, email, requestingAdminEmail string) (*DeletedUser, error) {
	// 自己削除ガード
	if email == requestingAdminEmail {
		return nil, domain.ErrSelfDeletion
	}

	deleted, err := u.users.Delete(ctx, email)
	if err != nil {
		return nil, err
	}

	return &DeletedUser{
		Email:     deleted.Email,
		Role:      deleted.Role,
		DeletedAt: time.Now(),
	}, nil
}
