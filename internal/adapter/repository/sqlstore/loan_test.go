package sqlstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	domain "fastloan-backend/internal/domain/loan"
	"fastloan-backend/internal/testutil/testdb"
	"fastloan-backend/pkg/id"
)

func makeLoan(userID string) *domain.Loan {
	return &domain.Loan{
		LoanID:   id.NewID32(),
		UserID:   userID,
		Amount:   decimal.RequireFromString("1000.00"),
		Purpose:  "inventory",
		Duration: 90,
		Status:   domain.StatusPending,
	}
}

// seedLoan writes a loan with one guarantor and account details.
func seedLoan(t *testing.T, repo *LoanRepository, userID string) *domain.Loan {
	t.Helper()
	ctx := context.Background()
	l := makeLoan(userID)
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if l.ID == 0 {
		t.Fatalf("Create did not set auto-increment ID")
	}
	gs := []domain.Guarantor{
		{GuarantorID: id.NewID32(), LoanID: l.ID, FullName: "Ama Mensah", PhoneNumber: "0241234567", Relationship: "family"},
	}
	if err := repo.AddGuarantors(ctx, gs); err != nil {
		t.Fatalf("AddGuarantors: %v", err)
	}
	if err := repo.SetAccountDetails(ctx, &domain.AccountDetails{
		LoanID: l.ID, MobileMoneyNumber: "0241234567", AccountName: "Kofi", Provider: "mtn",
	}); err != nil {
		t.Fatalf("SetAccountDetails: %v", err)
	}
	return l
}

func TestCreateAndGetByLoanID_Hydrated(t *testing.T) {
	db := testdb.Open(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	user := id.NewID32()
	l := seedLoan(t, repo, user)

	got, err := repo.GetByLoanID(ctx, l.LoanID)
	if err != nil {
		t.Fatalf("GetByLoanID: %v", err)
	}
	if got.UserID != user || got.Status != domain.StatusPending {
		t.Errorf("unexpected loan: %+v", got)
	}
	if !got.Amount.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("amount = %s", got.Amount)
	}
	if len(got.Guarantors) != 1 || got.Guarantors[0].FullName != "Ama Mensah" {
		t.Errorf("guarantors not loaded: %+v", got.Guarantors)
	}
	if got.AccountDetails == nil || got.AccountDetails.Provider != "mtn" {
		t.Errorf("account details not loaded: %+v", got.AccountDetails)
	}
}

func TestCreate_IgnoresAssociations(t *testing.T) {
	db := testdb.Open(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	l := makeLoan(id.NewID32())
	l.Guarantors = []domain.Guarantor{{GuarantorID: id.NewID32(), FullName: "x", PhoneNumber: "1", Relationship: "friend"}}
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}
	var n int64
	db.Model(&domain.Guarantor{}).Count(&n)
	if n != 0 {
		t.Fatalf("Create wrote %d guarantors, want 0", n)
	}
}

func TestAddGuarantors_Empty(t *testing.T) {
	repo := NewLoanRepository(testdb.Open(t))
	if err := repo.AddGuarantors(context.Background(), nil); err != nil {
		t.Fatalf("AddGuarantors(nil): %v", err)
	}
}

func TestGetByLoanID_NotFound(t *testing.T) {
	repo := NewLoanRepository(testdb.Open(t))
	_, err := repo.GetByLoanID(context.Background(), "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestGetByLoanIDForUpdate(t *testing.T) {
	db := testdb.Open(t)
	repo := NewLoanRepository(db)
	l := seedLoan(t, repo, id.NewID32())

	got, err := repo.GetByLoanIDForUpdate(context.Background(), l.LoanID)
	if err != nil {
		t.Fatalf("GetByLoanIDForUpdate: %v", err)
	}
	if got.ID != l.ID {
		t.Fatalf("got id %d, want %d", got.ID, l.ID)
	}
}

func TestListByUserID_NewestFirst(t *testing.T) {
	db := testdb.Open(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	user := id.NewID32()
	base := time.Now().UTC().Add(-time.Hour)
	var ids []string
	for i := 0; i < 3; i++ {
		l := seedLoan(t, repo, user)
		// spread created_at so ordering does not depend on clock resolution
		if err := db.Model(&domain.Loan{}).Where("id = ?", l.ID).
			Update("created_at", base.Add(time.Duration(i)*time.Minute)).Error; err != nil {
			t.Fatal(err)
		}
		ids = append(ids, l.LoanID)
	}
	seedLoan(t, repo, id.NewID32()) // someone else's

	got, err := repo.ListByUserID(ctx, user)
	if err != nil {
		t.Fatalf("ListByUserID: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, want := range []string{ids[2], ids[1], ids[0]} {
		if got[i].LoanID != want {
			t.Errorf("pos %d = %s, want %s", i, got[i].LoanID, want)
		}
		if len(got[i].Guarantors) != 1 || got[i].AccountDetails == nil {
			t.Errorf("pos %d not hydrated", i)
		}
	}
}

func TestListByUserID_SameTimestampTieBreaksOnID(t *testing.T) {
	db := testdb.Open(t)
	repo := NewLoanRepository(db)
	user := id.NewID32()

	a := seedLoan(t, repo, user)
	b := seedLoan(t, repo, user)
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	db.Model(&domain.Loan{}).Where("user_id = ?", user).Update("created_at", ts)

	got, err := repo.ListByUserID(context.Background(), user)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].LoanID != b.LoanID || got[1].LoanID != a.LoanID {
		t.Fatalf("unexpected order: %s, %s", got[0].LoanID, got[1].LoanID)
	}
}

func TestUpdateStatus_Conditional(t *testing.T) {
	db := testdb.Open(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()
	l := seedLoan(t, repo, id.NewID32())

	now := time.Now().UTC()
	l.Status = domain.StatusApproved
	l.ApprovedAt = &now
	ok, err := repo.UpdateStatus(ctx, l, domain.StatusPending)
	if err != nil || !ok {
		t.Fatalf("first UpdateStatus ok=%v err=%v", ok, err)
	}

	// stored status is now approved, so a second pending->x must not apply
	l.Status = domain.StatusRejected
	ok, err = repo.UpdateStatus(ctx, l, domain.StatusPending)
	if err != nil {
		t.Fatalf("second UpdateStatus: %v", err)
	}
	if ok {
		t.Fatalf("conditional update applied on stale status")
	}

	got, _ := repo.GetByLoanID(ctx, l.LoanID)
	if got.Status != domain.StatusApproved || got.ApprovedAt == nil {
		t.Fatalf("unexpected stored loan: status=%s approved_at=%v", got.Status, got.ApprovedAt)
	}
}
