package repositories_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	domainErrors "vaultpay/internal/errors"
	"vaultpay/internal/models"
	"vaultpay/internal/repositories"
	"vaultpay/internal/services/deposit"
	"vaultpay/internal/services/gateway"
	"vaultpay/internal/services/transfer"
	"vaultpay/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedAccount(t *testing.T, db *gorm.DB, email, number string, balance int64) (*models.User, *models.Wallet) {
	t.Helper()

	user := &models.User{Email: email, Password: "hash", Name: "Integration User"}
	require.NoError(t, db.Create(user).Error)

	w := &models.Wallet{UserID: user.ID, WalletNumber: number, Currency: models.DefaultCurrency}
	require.NoError(t, db.Create(w).Error)
	if balance > 0 {
		// BeforeCreate zeroes the balance; fund the wallet directly for setup.
		require.NoError(t, db.Model(w).Update("balance", balance).Error)
		w.Balance = balance
	}
	return user, w
}

func TestWalletRepository_Constraints(t *testing.T) {
	db := testutil.SetupPostgres(t)
	ctx := context.Background()
	repo := repositories.NewWalletRepository(db)

	u1, _ := seedAccount(t, db, "a@vaultpay.test", "5200000001", 0)
	u2, _ := seedAccount(t, db, "b@vaultpay.test", "5200000002", 0)

	err := repo.Create(ctx, &models.Wallet{UserID: u1.ID, WalletNumber: "5200000003"})
	assert.ErrorIs(t, err, domainErrors.ErrWalletExists)

	u3 := &models.User{Email: "c@vaultpay.test", Password: "hash", Name: "Third"}
	require.NoError(t, db.Create(u3).Error)
	err = repo.Create(ctx, &models.Wallet{UserID: u3.ID, WalletNumber: "5200000002"})
	assert.ErrorIs(t, err, domainErrors.ErrWalletNumberTaken)

	found, err := repo.GetByNumber(ctx, "5200000002")
	require.NoError(t, err)
	assert.Equal(t, u2.ID, found.UserID)

	_, err = repo.GetByNumber(ctx, "5299999999")
	assert.ErrorIs(t, err, domainErrors.ErrWalletNotFound)

	exists, err := repo.NumberExists(ctx, "5200000001")
	require.NoError(t, err)
	assert.True(t, exists)

	// Lock-taking operations require a unit of work.
	_, err = repo.(repositories.WalletTxRepository).LockForUpdate(ctx, found.ID)
	assert.ErrorIs(t, err, repositories.ErrNotInTransaction)
}

func TestTransactionRepository_LedgerRules(t *testing.T) {
	db := testutil.SetupPostgres(t)
	ctx := context.Background()
	repo := repositories.NewTransactionRepository(db)

	_, w := seedAccount(t, db, "ledger@vaultpay.test", "5200000010", 0)

	entry := &models.Transaction{
		WalletID:  w.ID,
		Type:      models.TransactionTypeDeposit,
		Amount:    500_00,
		Reference: "DEP-1",
	}
	require.NoError(t, repo.Record(ctx, entry))
	assert.Equal(t, models.TransactionStatusPending, entry.Status)

	err := repo.Record(ctx, &models.Transaction{
		WalletID:  w.ID,
		Type:      models.TransactionTypeDeposit,
		Amount:    100_00,
		Reference: "DEP-1",
	})
	assert.ErrorIs(t, err, domainErrors.ErrDuplicateReference)

	updated, err := repo.UpdateStatus(ctx, entry.ID, models.TransactionStatusSuccess, models.JSON{"provider_id": "ch_1"})
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusSuccess, updated.Status)

	stored, err := repo.GetByReference(ctx, "DEP-1")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusSuccess, stored.Status)
	assert.Equal(t, "ch_1", stored.Metadata["provider_id"])

	// Repeating the terminal status is a no-op; leaving it is forbidden.
	_, err = repo.UpdateStatus(ctx, entry.ID, models.TransactionStatusSuccess, nil)
	assert.NoError(t, err)
	_, err = repo.UpdateStatus(ctx, entry.ID, models.TransactionStatusFailed, nil)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidTransition)

	for i := 2; i <= 3; i++ {
		require.NoError(t, repo.Record(ctx, &models.Transaction{
			WalletID:  w.ID,
			Type:      models.TransactionTypeDeposit,
			Amount:    int64(i) * 10_00,
			Reference: fmt.Sprintf("DEP-%d", i),
		}))
	}

	page, total, err := repo.ListByWallet(ctx, w.ID, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 2)
	assert.Equal(t, "DEP-3", page[0].Reference)
	assert.Equal(t, "DEP-2", page[1].Reference)
}

func TestTxManager_RollsBackFailedUnitOfWork(t *testing.T) {
	db := testutil.SetupPostgres(t)
	ctx := context.Background()
	manager := repositories.NewTxManager(db, 5*time.Second)
	repo := repositories.NewWalletRepository(db)

	_, w := seedAccount(t, db, "rollback@vaultpay.test", "5200000020", 300_00)

	boom := errors.New("boom")
	err := manager.RunInTransaction(ctx, func(uow *repositories.UnitOfWork) error {
		if _, err := uow.Wallets.LockForUpdate(ctx, w.ID); err != nil {
			return err
		}
		if err := uow.Wallets.UpdateBalance(ctx, w.ID, 0); err != nil {
			return err
		}
		if err := uow.Transactions.Record(ctx, &models.Transaction{
			WalletID:  w.ID,
			Type:      models.TransactionTypeTransferOut,
			Amount:    300_00,
			Reference: "TRF-ROLLBACK-OUT",
		}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	after, err := repo.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(300_00), after.Balance)

	_, err = repositories.NewTransactionRepository(db).GetByReference(ctx, "TRF-ROLLBACK-OUT")
	assert.ErrorIs(t, err, domainErrors.ErrTransactionNotFound)
}

func TestTransferService_ConcurrentOpposingTransfers(t *testing.T) {
	db := testutil.SetupPostgres(t)
	ctx := context.Background()

	walletRepo := repositories.NewWalletRepository(db)
	manager := repositories.NewTxManager(db, 10*time.Second)
	svc := transfer.NewService(walletRepo, manager, nil)

	userA, walletA := seedAccount(t, db, "alice@vaultpay.test", "5200000031", 1_000_00)
	userB, walletB := seedAccount(t, db, "bob@vaultpay.test", "5200000032", 1_000_00)

	const perDirection = 25
	var wg sync.WaitGroup
	errs := make(chan error, 2*perDirection)
	for i := 0; i < perDirection; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := svc.Transfer(ctx, transfer.Input{
				SenderUserID:         userA.ID,
				ReceiverWalletNumber: walletB.WalletNumber,
				Amount:               1_00,
			})
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := svc.Transfer(ctx, transfer.Input{
				SenderUserID:         userB.ID,
				ReceiverWalletNumber: walletA.WalletNumber,
				Amount:               1_00,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	afterA, err := walletRepo.GetByID(ctx, walletA.ID)
	require.NoError(t, err)
	afterB, err := walletRepo.GetByID(ctx, walletB.ID)
	require.NoError(t, err)

	// Equal opposing volume nets to zero, and no kobo is created or lost.
	assert.Equal(t, int64(1_000_00), afterA.Balance)
	assert.Equal(t, int64(1_000_00), afterB.Balance)

	ledger := repositories.NewTransactionRepository(db)
	_, totalA, err := ledger.ListByWallet(ctx, walletA.ID, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2*perDirection), totalA)
}

type stubGateway struct {
	collection gateway.Collection
	event      *gateway.Event
}

func (s *stubGateway) InitializeCollection(ctx context.Context, req gateway.CollectionRequest) (*gateway.Collection, error) {
	c := s.collection
	c.Reference = req.Reference
	return &c, nil
}

func (s *stubGateway) ParseEvent(payload []byte, signature string) (*gateway.Event, error) {
	return s.event, nil
}

func TestDepositService_ReconciliationAgainstPostgres(t *testing.T) {
	db := testutil.SetupPostgres(t)
	ctx := context.Background()

	walletRepo := repositories.NewWalletRepository(db)
	ledger := repositories.NewTransactionRepository(db)
	manager := repositories.NewTxManager(db, 5*time.Second)

	stub := &stubGateway{collection: gateway.Collection{
		ProviderID:       "cs_test_1",
		AuthorizationURL: "https://checkout.stripe.com/pay/cs_test_1",
	}}
	svc := deposit.NewService(walletRepo, ledger, manager, stub, nil, deposit.Config{})

	user, w := seedAccount(t, db, "depositor@vaultpay.test", "5200000040", 0)

	receipt, err := svc.Initiate(ctx, deposit.InitiateInput{UserID: user.ID, Amount: 250_00, Email: user.Email})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.com/pay/cs_test_1", receipt.AuthorizationURL)
	assert.Equal(t, models.TransactionStatusPending, receipt.Transaction.Status)

	stub.event = &gateway.Event{
		Type:       gateway.EventChargeSucceeded,
		Reference:  receipt.Reference,
		Amount:     250_00,
		Currency:   models.DefaultCurrency,
		ProviderID: "ch_test_1",
	}

	require.NoError(t, svc.HandleEvent(ctx, []byte("{}"), "sig"))

	credited, err := walletRepo.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(250_00), credited.Balance)

	// Redelivery hits the terminal row and must not credit again.
	require.NoError(t, svc.HandleEvent(ctx, []byte("{}"), "sig"))
	credited, err = walletRepo.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(250_00), credited.Balance)

	entry, err := svc.Status(ctx, user.ID, receipt.Reference)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusSuccess, entry.Status)
	assert.Equal(t, "ch_test_1", entry.Metadata["provider_id"])
}
