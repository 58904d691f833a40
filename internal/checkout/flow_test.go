package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/quickpos/quickpos/internal/cart"
	"github.com/quickpos/quickpos/internal/catalog"
	"github.com/quickpos/quickpos/internal/observability"
	"github.com/quickpos/quickpos/internal/orderref"
	"github.com/quickpos/quickpos/internal/pricing"
	"github.com/quickpos/quickpos/internal/register"
	"github.com/quickpos/quickpos/internal/sales"
)

var (
	latte     = catalog.Product{ID: 2, Name: "Latte", Price: decimal.NewFromInt(18), IsActive: true}
	americano = catalog.Product{ID: 4, Name: "Americano", Price: decimal.NewFromInt(14), IsActive: true}
)

// flakyRecorder fails the first failures calls. The first lostAcks calls
// store the sale before failing, as when the connection drops after commit.
type flakyRecorder struct {
	mu       sync.Mutex
	failures int
	lostAcks int
	err      error
	calls    int
	store    *sales.MemoryStore
}

func (r *flakyRecorder) Record(ctx context.Context, sale sales.Sale) (sales.Sale, error) {
	r.mu.Lock()
	r.calls++
	fail := r.calls <= r.failures
	lost := r.calls <= r.lostAcks
	r.mu.Unlock()
	if lost {
		if _, err := r.store.Record(ctx, sale); err != nil {
			return sales.Sale{}, err
		}
		return sales.Sale{}, r.err
	}
	if fail {
		return sales.Sale{}, r.err
	}
	return r.store.Record(ctx, sale)
}

func (r *flakyRecorder) GetByNumber(ctx context.Context, saleNumber string) (sales.Sale, error) {
	return r.store.GetByNumber(ctx, saleNumber)
}

type recordingQueue struct {
	mu    sync.Mutex
	sales []sales.Sale
	err   error
}

func (q *recordingQueue) EnqueueReceipt(_ context.Context, _ string, sale sales.Sale) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sales = append(q.sales, sale)
	return q.err
}

type FlowSuite struct {
	suite.Suite
	store    *sales.MemoryStore
	recorder *flakyRecorder
	queue    *recordingQueue
	reg      *register.Register
	flow     *Flow
}

func (s *FlowSuite) SetupTest() {
	n := 0
	refs := orderref.GeneratorFunc(func() string {
		n++
		return fmt.Sprintf("SAL-FLOW%03d", n)
	})
	s.store = sales.NewMemoryStore()
	s.recorder = &flakyRecorder{store: s.store, err: errors.New("connection reset")}
	s.queue = &recordingQueue{}
	s.reg = register.New("T1", cart.New(pricing.MustCalculator("0.05"), refs))
	s.flow = NewFlow(Config{RecordAttempts: 3, RetryInitialInterval: time.Millisecond}, s.recorder, s.queue, observability.NewMetrics(), nil)
}

func (s *FlowSuite) fillAndOpen() {
	for _, cmd := range []cart.Command{
		cart.AddItem{Product: latte},
		cart.AddItem{Product: latte},
		cart.AddItem{Product: americano},
		cart.OpenCheckout{},
	} {
		_, err := s.reg.Apply(cmd)
		s.Require().NoError(err)
	}
}

func (s *FlowSuite) TestCompleteRecordsThenShowsReceipt() {
	s.fillAndOpen()

	sale, err := s.flow.Complete(context.Background(), s.reg, sales.PaymentCard)
	s.Require().NoError(err)
	s.Equal("SAL-FLOW001", sale.SaleNumber)
	s.Equal("52.50", sale.TotalAmount.StringFixed(2))
	s.Equal(sales.PaymentCard, sale.PaymentMethod)
	s.NotZero(sale.ID)

	v := s.reg.View()
	s.True(v.ReceiptOpen)
	s.False(v.CheckoutOpen)
	s.Require().NotNil(v.LastSale)
	s.Equal(sale.SaleNumber, v.LastSale.SaleNumber)
	s.False(s.reg.Processing())

	recent, err := s.store.ListRecent(context.Background(), 1)
	s.Require().NoError(err)
	s.Require().Len(recent, 1)
	stored := recent[0]
	s.Equal("SAL-FLOW001", stored.SaleNumber)
	s.Equal("50.00", stored.Subtotal.StringFixed(2))
	s.Equal("2.50", stored.TaxAmount.StringFixed(2))
	s.Equal("52.50", stored.TotalAmount.StringFixed(2))
	s.Equal(sales.PaymentCard, stored.PaymentMethod)
	s.Equal(3, stored.ItemCount())
	s.Require().Len(stored.Items, 2)
	s.Equal(int64(2), stored.Items[0].ProductID)
	s.Equal(2, stored.Items[0].Quantity)
	s.Equal("36.00", stored.Items[0].Subtotal.StringFixed(2))
	s.Equal(int64(4), stored.Items[1].ProductID)
	s.True(stored.SameContent(sale))

	s.Require().Len(s.queue.sales, 1)
	s.Equal("SAL-FLOW001", s.queue.sales[0].SaleNumber)
}

func (s *FlowSuite) TestSaleKeepsPricesAfterCatalogChange() {
	ctx := context.Background()
	provider := catalog.NewSeededProvider()
	menu := catalog.NewService(provider, nil)

	product, err := menu.Get(ctx, 2)
	s.Require().NoError(err)
	for _, cmd := range []cart.Command{cart.AddItem{Product: product}, cart.OpenCheckout{}} {
		_, err := s.reg.Apply(cmd)
		s.Require().NoError(err)
	}

	sale, err := s.flow.Complete(ctx, s.reg, sales.PaymentCash)
	s.Require().NoError(err)
	s.Require().NoError(provider.SetPrice(2, decimal.NewFromInt(99)))

	repriced, err := menu.Get(ctx, 2)
	s.Require().NoError(err)
	s.Equal("99.00", repriced.Price.StringFixed(2))

	last := s.reg.View().LastSale
	s.Require().NotNil(last)
	s.Equal("18.00", last.Items[0].UnitPrice.StringFixed(2))
	s.Equal("18.00", last.Subtotal.StringFixed(2))

	stored, err := s.store.GetByNumber(ctx, sale.SaleNumber)
	s.Require().NoError(err)
	s.Equal("18.00", stored.Items[0].UnitPrice.StringFixed(2))
	s.Equal("18.90", stored.TotalAmount.StringFixed(2))
}

func (s *FlowSuite) TestRetriesTransientFailures() {
	s.fillAndOpen()
	s.recorder.failures = 2

	sale, err := s.flow.Complete(context.Background(), s.reg, sales.PaymentCash)
	s.Require().NoError(err)
	s.Equal(3, s.recorder.calls)
	s.Equal("SAL-FLOW001", sale.SaleNumber)
}

func (s *FlowSuite) TestRecordFailureKeepsCart() {
	s.fillAndOpen()
	s.recorder.failures = 10
	before := s.reg.View()

	_, err := s.flow.Complete(context.Background(), s.reg, sales.PaymentCash)
	s.Require().ErrorIs(err, ErrRecordFailed)
	s.Equal(3, s.recorder.calls)

	after := s.reg.View()
	s.Equal(before.OrderNumber, after.OrderNumber)
	s.Equal(before.Lines, after.Lines)
	s.True(after.CheckoutOpen)
	s.False(after.ReceiptOpen)
	s.Nil(after.LastSale)
	s.False(s.reg.Processing())
	s.Empty(s.queue.sales)

	// retry succeeds with the same reference
	s.recorder.failures = 0
	sale, err := s.flow.Complete(context.Background(), s.reg, sales.PaymentCash)
	s.Require().NoError(err)
	s.Equal(before.OrderNumber, sale.SaleNumber)
}

func (s *FlowSuite) TestDuplicateIsNotRetried() {
	s.fillAndOpen()
	s.recorder.failures = 10
	s.recorder.err = sales.ErrDuplicate

	_, err := s.flow.Complete(context.Background(), s.reg, sales.PaymentCash)
	s.Require().ErrorIs(err, ErrRecordFailed)
	s.Equal(1, s.recorder.calls)
}

func (s *FlowSuite) TestLostAcknowledgementCompletesOnce() {
	s.fillAndOpen()
	s.recorder.lostAcks = 1
	s.recorder.err = errors.New("connection reset after commit")

	sale, err := s.flow.Complete(context.Background(), s.reg, sales.PaymentCard)
	s.Require().NoError(err)
	s.Equal(2, s.recorder.calls)
	s.Equal("SAL-FLOW001", sale.SaleNumber)
	s.NotZero(sale.ID)

	v := s.reg.View()
	s.True(v.ReceiptOpen)
	s.Require().NotNil(v.LastSale)
	s.Equal("SAL-FLOW001", v.LastSale.SaleNumber)

	recent, err := s.store.ListRecent(context.Background(), 10)
	s.Require().NoError(err)
	s.Len(recent, 1)
	s.Len(s.queue.sales, 1)
}

func (s *FlowSuite) TestNumberTakenByDifferentSaleConflicts() {
	_, err := s.store.Record(context.Background(), sales.Sale{
		SaleNumber:    "SAL-FLOW001",
		Subtotal:      decimal.NewFromInt(14),
		TaxAmount:     decimal.RequireFromString("0.70"),
		TotalAmount:   decimal.RequireFromString("14.70"),
		PaymentMethod: sales.PaymentCash,
		Items: []sales.SaleItem{
			{ProductID: 4, ProductName: "Americano", Quantity: 1, UnitPrice: decimal.NewFromInt(14), Subtotal: decimal.NewFromInt(14)},
		},
	})
	s.Require().NoError(err)
	s.fillAndOpen()

	_, err = s.flow.Complete(context.Background(), s.reg, sales.PaymentCard)
	s.Require().ErrorIs(err, ErrSaleConflict)
	s.NotErrorIs(err, ErrRecordFailed)
	s.Equal(1, s.recorder.calls)

	v := s.reg.View()
	s.True(v.CheckoutOpen)
	s.False(v.ReceiptOpen)
	s.Len(v.Lines, 2)
	s.False(s.reg.Processing())
	s.Empty(s.queue.sales)

	stored, err := s.store.GetByNumber(context.Background(), "SAL-FLOW001")
	s.Require().NoError(err)
	s.Equal(sales.PaymentCash, stored.PaymentMethod)
}

func (s *FlowSuite) TestRejectsClosedCheckout() {
	_, err := s.reg.Apply(cart.AddItem{Product: latte})
	s.Require().NoError(err)

	_, err = s.flow.Complete(context.Background(), s.reg, sales.PaymentCash)
	s.ErrorIs(err, ErrCheckoutClosed)
	s.Zero(s.recorder.calls)
}

func (s *FlowSuite) TestRejectsEmptyCart() {
	_, err := s.reg.Apply(cart.OpenCheckout{})
	s.Require().NoError(err)

	_, err = s.flow.Complete(context.Background(), s.reg, sales.PaymentCash)
	s.ErrorIs(err, ErrEmptyCart)
	s.True(s.reg.View().CheckoutOpen)
}

func (s *FlowSuite) TestRejectsUnknownPaymentMethod() {
	s.fillAndOpen()

	_, err := s.flow.Complete(context.Background(), s.reg, sales.PaymentMethod("bitcoin"))
	s.ErrorIs(err, sales.ErrInvalidPaymentMethod)
	s.False(s.reg.Processing())
}

func (s *FlowSuite) TestCancelledDuringDelayAborts() {
	s.fillAndOpen()
	s.flow.cfg.ProcessingDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.flow.Complete(ctx, s.reg, sales.PaymentCash)
	s.ErrorIs(err, context.Canceled)
	s.False(s.reg.Processing())
	s.True(s.reg.View().CheckoutOpen)
	s.Zero(s.recorder.calls)
}

func (s *FlowSuite) TestDuplicateSubmissionIsRefused() {
	s.fillAndOpen()
	s.flow.cfg.ProcessingDelay = 50 * time.Millisecond

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.flow.Complete(context.Background(), s.reg, sales.PaymentCash)
		}(i)
	}
	wg.Wait()

	var ok, refused int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, register.ErrProcessing):
			refused++
		}
	}
	s.Equal(1, ok)
	s.Equal(1, refused)
	s.Equal(1, s.recorder.calls)
}

func (s *FlowSuite) TestCloseCheckoutRefusedWhileProcessing() {
	s.fillAndOpen()
	_, err := s.reg.BeginPayment(sales.PaymentCash, Ready)
	s.Require().NoError(err)

	_, err = s.reg.Apply(cart.CloseCheckout{})
	s.ErrorIs(err, register.ErrProcessing)
	s.reg.AbortPayment()
}

func (s *FlowSuite) TestReceiptQueueFailureDoesNotFailSale() {
	s.fillAndOpen()
	s.queue.err = errors.New("queue down")

	_, err := s.flow.Complete(context.Background(), s.reg, sales.PaymentCredit)
	s.NoError(err)
	s.True(s.reg.View().ReceiptOpen)
}

func (s *FlowSuite) TestNewOrderAfterComplete() {
	s.fillAndOpen()
	_, err := s.flow.Complete(context.Background(), s.reg, sales.PaymentCash)
	s.Require().NoError(err)

	v, err := s.reg.Apply(cart.NewOrder{})
	s.Require().NoError(err)
	s.Empty(v.Lines)
	s.Nil(v.LastSale)
	s.Equal("SAL-FLOW002", v.OrderNumber)
}

func TestFlowSuite(t *testing.T) {
	suite.Run(t, new(FlowSuite))
}
