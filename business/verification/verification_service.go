package verification

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	redisrepo "comprasmart/internal/repository/redis"
	"comprasmart/pkg/apperr"
	"comprasmart/pkg/logger"
)

const codeTTL = 15 * time.Minute

type CodeStore interface {
	Store(ctx context.Context, email, phone string, codes redisrepo.VerificationCodes, ttl time.Duration) error
	Get(ctx context.Context, email, phone string) (redisrepo.VerificationCodes, error)
	Delete(ctx context.Context, email, phone string) error
}

type ConsultantRepository interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
}

type EmailSender interface {
	SendEmail(toName, toEmail, subject, message string) error
}

type SMSSender interface {
	SendSMS(toNumber, message string) error
}

type SendCodesInput struct {
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required"`
}

type ValidateCodesInput struct {
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
	EmailCode string `json:"email_code" validate:"required,len=6"`
	PhoneCode string `json:"phone_code" validate:"required,len=6"`
}

// SendCodesResult echoes the codes outside production so local clients can
// complete the flow without a mail inbox.
type SendCodesResult struct {
	Sent      bool   `json:"sent"`
	EmailCode string `json:"email_code,omitempty"`
	PhoneCode string `json:"phone_code,omitempty"`
}

type VerificationService struct {
	codes          CodeStore
	consultantRepo ConsultantRepository
	email          EmailSender
	sms            SMSSender
	echoCodes      bool
}

func NewVerificationService(
	codes CodeStore,
	consultantRepo ConsultantRepository,
	email EmailSender,
	sms SMSSender,
	echoCodes bool,
) *VerificationService {
	return &VerificationService{
		codes:          codes,
		consultantRepo: consultantRepo,
		email:          email,
		sms:            sms,
		echoCodes:      echoCodes,
	}
}

func sixDigitCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// SendCodes issues a fresh pair of codes for an email+phone combination not
// yet registered. Resending overwrites the previous pair, so only the latest
// codes validate.
func (s *VerificationService) SendCodes(ctx context.Context, input SendCodesInput) (SendCodesResult, error) {
	taken, err := s.consultantRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return SendCodesResult{}, err
	}
	if taken {
		return SendCodesResult{}, apperr.Conflict("email %s is already registered", input.Email)
	}

	taken, err = s.consultantRepo.ExistsByPhone(ctx, input.Phone)
	if err != nil {
		return SendCodesResult{}, err
	}
	if taken {
		return SendCodesResult{}, apperr.Conflict("phone %s is already registered", input.Phone)
	}

	emailCode, err := sixDigitCode()
	if err != nil {
		return SendCodesResult{}, apperr.Internal(err, "generating code")
	}
	phoneCode, err := sixDigitCode()
	if err != nil {
		return SendCodesResult{}, apperr.Internal(err, "generating code")
	}

	codes := redisrepo.VerificationCodes{
		EmailCode: emailCode,
		PhoneCode: phoneCode,
		IssuedAt:  time.Now(),
	}
	if err := s.codes.Store(ctx, input.Email, input.Phone, codes, codeTTL); err != nil {
		return SendCodesResult{}, apperr.Upstream(err, "storing verification codes")
	}

	// Delivery happens off the request path. A lost message is recoverable
	// by resending.
	go func() {
		err := s.email.SendEmail("", input.Email,
			"Your verification code",
			fmt.Sprintf("Your verification code is %s. It expires in 15 minutes.", emailCode))
		if err != nil {
			logger.Error("failed to send verification email", err, "email", input.Email)
		}
	}()
	go func() {
		err := s.sms.SendSMS(input.Phone,
			fmt.Sprintf("Your verification code is %s. It expires in 15 minutes.", phoneCode))
		if err != nil {
			logger.Error("failed to send verification sms", err, "phone", input.Phone)
		}
	}()

	result := SendCodesResult{Sent: true}
	if s.echoCodes {
		result.EmailCode = emailCode
		result.PhoneCode = phoneCode
	}
	return result, nil
}

// ValidateCodes checks both codes against the stored pair and consumes them
// on success. Expired or missing pairs and mismatches are indistinguishable
// to the caller.
func (s *VerificationService) ValidateCodes(ctx context.Context, input ValidateCodesInput) error {
	stored, err := s.codes.Get(ctx, input.Email, input.Phone)
	if err != nil {
		if errors.Is(err, redisrepo.ErrCodesNotFound) {
			return apperr.Validation("verification codes expired or not found")
		}
		return apperr.Upstream(err, "loading verification codes")
	}

	if stored.EmailCode != input.EmailCode || stored.PhoneCode != input.PhoneCode {
		return apperr.Validation("verification codes do not match")
	}

	if err := s.codes.Delete(ctx, input.Email, input.Phone); err != nil {
		logger.Error("failed to delete consumed verification codes", err, "email", input.Email)
	}

	return nil
}
