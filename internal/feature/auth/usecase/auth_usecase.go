// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"

	"shop_backend/internal/feature/auth/domain"
	"shop_backend/internal/feature/auth/domain/entity"
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// 同じメールアドレスのユーザーが既に存在する場合、domain.ErrEmailAlreadyExistsを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail は指定されたメールアドレスに一致するユーザーを取得します。
	// ユーザーが存在しない場合、domain.ErrUserNotFoundを返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID は指定されたIDに一致するユーザーを取得します。
	// ユーザーが存在しない場合、domain.ErrUserNotFoundを返します。
	FindByID(ctx context.Context, id uint) (*entity.User, error)
}

// TokenGenerator はセッショントークン生成のインターフェースを定義します。
// 署名プリミティブを差し替え可能にするため、コンシューマー側で定義します。
type TokenGenerator interface {
	// GenerateToken は指定されたユーザーの署名済みトークンを生成します。
	GenerateToken(userID uint, role string) (string, error)
}

// PasswordHasher はパスワードのハッシュ化と検証を抽象化します。
// テストでは決定的なフェイクに差し替えられます。
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hashed, password string) bool
}

// ユーザー未検出時のタイミング攻撃緩和用ダミーハッシュ。
// ハッシュ比較が常に実行されることを保証します。
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users  UserRepository
	tokens TokenGenerator
	hasher PasswordHasher
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, tokens TokenGenerator, hasher PasswordHasher) *authUsecase {
	return &authUsecase{
		users:  users,
		tokens: tokens,
		hasher: hasher,
	}
}

// Register はハッシュ化されたパスワードで新規ユーザーを登録します。
// メールアドレスが既に使用されている場合、domain.ErrEmailAlreadyExistsを返します。
func (u *authUsecase) Register(ctx context.Context, email, password string) (*entity.User, error) {
	hashed, err := u.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &entity.User{Email: email, Password: hashed, Role: entity.RoleUser}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login はユーザーを認証し、成功時にトークンと公開ユーザー情報を返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもハッシュ比較を実行します。
// 未検出とパスワード不一致は区別せずdomain.ErrInvalidCredentialsを返します。
func (u *authUsecase) Login(ctx context.Context, email, password string) (string, *entity.User, error) {
	user, err := u.users.FindByEmail(ctx, email)

	// ユーザー未検出でも常に比較を実行する
	passwordHash := dummyHash
	if err == nil {
		passwordHash = user.Password
	}
	match := u.hasher.Compare(passwordHash, password)

	if err != nil || !match {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, tokenErr := u.tokens.GenerateToken(user.ID, user.Role)
	if tokenErr != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", tokenErr)
	}

	return token, user, nil
}
