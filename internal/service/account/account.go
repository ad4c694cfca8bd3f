package account

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/nkiryanov/mimiplus/internal/models"
	"github.com/nkiryanov/mimiplus/internal/repository"
)

type CreateParams struct {
	Name  string
	Email string
	Role  string
}

// Empty field keeps the current value
type UpdateParams struct {
	Name  string
	Email string
}

type ListOpts = repository.ListAccountsOpts

// Generates unique code printed as QR on loyalty card
type CodeGenerator func() (string, error)

// Code is a bcrypt hash of random bytes, so it can't be guessed from anything about the account
func BcryptCode() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("error while reading random bytes. Err: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(b)), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("error while hashing code. Err: %w", err)
	}

	return string(hash), nil
}

type AccountService struct {
	accountRepo repository.AccountRepo
	newCode     CodeGenerator
}

func NewService(accountRepo repository.AccountRepo, newCode CodeGenerator) *AccountService {
	if newCode == nil {
		newCode = BcryptCode
	}

	return &AccountService{
		accountRepo: accountRepo,
		newCode:     newCode,
	}
}

// Create active account with zero balance
func (s *AccountService) Create(ctx context.Context, params CreateParams) (models.Account, error) {
	var account models.Account

	if params.Role == "" {
		params.Role = models.RoleCustomer
	}

	code, err := s.newCode()
	if err != nil {
		return account, fmt.Errorf("can't generate qr code. Err: %w", err)
	}

	account, err = s.accountRepo.CreateAccount(ctx, models.Account{
		Name:   strings.TrimSpace(params.Name),
		Email:  strings.ToLower(strings.TrimSpace(params.Email)),
		Role:   params.Role,
		Status: models.AccountStatusActive,
		QRCode: code,
	})
	if err != nil {
		return account, fmt.Errorf("can't create account. Err: %w", err)
	}

	return account, nil
}

func (s *AccountService) Update(ctx context.Context, accountID uuid.UUID, params UpdateParams) (models.Account, error) {
	account, err := s.accountRepo.UpdateAccount(
		ctx,
		accountID,
		strings.TrimSpace(params.Name),
		strings.ToLower(strings.TrimSpace(params.Email)),
	)
	if err != nil {
		return account, fmt.Errorf("can't update account. Err: %w", err)
	}

	return account, nil
}

// Customers change only their own name
func (s *AccountService) Rename(ctx context.Context, accountID uuid.UUID, name string) (models.Account, error) {
	return s.Update(ctx, accountID, UpdateParams{Name: name})
}

func (s *AccountService) Get(ctx context.Context, accountID uuid.UUID) (models.Account, error) {
	return s.accountRepo.GetAccount(ctx, accountID)
}

func (s *AccountService) GetByQRCode(ctx context.Context, code string) (models.Account, error) {
	return s.accountRepo.GetAccountByQRCode(ctx, code)
}

func (s *AccountService) List(ctx context.Context, opts ListOpts) ([]models.Account, error) {
	return s.accountRepo.ListAccounts(ctx, opts)
}

// Soft delete: account keeps its balance and history
func (s *AccountService) Deactivate(ctx context.Context, accountID uuid.UUID) (models.Account, error) {
	return s.accountRepo.SetAccountStatus(ctx, accountID, models.AccountStatusInactive)
}

func (s *AccountService) Reactivate(ctx context.Context, accountID uuid.UUID) (models.Account, error) {
	return s.accountRepo.SetAccountStatus(ctx, accountID, models.AccountStatusActive)
}
