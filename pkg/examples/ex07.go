package examples

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/hexa/pkg/adapters/memory"
	"github.com/aretw0/hexa/pkg/adapters/sendgrid"
	"github.com/aretw0/hexa/pkg/adapters/sqlstore"
	"github.com/aretw0/hexa/pkg/adapters/stripe"
	"github.com/aretw0/hexa/pkg/core"
)

func sampleItems() []core.LineItem {
	return []core.LineItem{
		{Name: "Rust Book", Price: 4999},
		{Name: "Keyboard", Price: 12999},
	}
}

func runEx07(ctx context.Context, out io.Writer) error {
	// The loopback providers print from their own goroutines.
	w := &lockedWriter{w: out}

	fmt.Fprint(w, "--- In-memory configuration ---\n\n")
	{
		repo := &tracedRepository{
			OrderRepository: memory.NewRepository(nil),
			w:               w,
			indent:          "  ",
			label:           "InMemory",
			save:            "Saving",
			find:            "Finding",
		}
		svc := core.NewService(
			core.WithRepository(repo),
			core.WithPayment(memory.NewPaymentGateway(w)),
			core.WithNotifier(consoleSender(w)),
		)
		order, err := svc.PlaceOrder(ctx, sampleItems())
		if err != nil {
			fmt.Fprintf(w, "\n  Error: %v\n\n", err)
		} else {
			fmt.Fprintf(w, "\n  Success! Order %s placed.\n\n", order.ID)
		}
	}

	fmt.Fprint(w, "\n--- External services configuration ---\n\n")

	providers, err := startProviders(w)
	if err != nil {
		return err
	}
	defer providers.close()

	dir, err := os.MkdirTemp("", "hexa-ex07-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	db, err := sqlstore.OpenSQLite(filepath.Join(dir, "orders.db"))
	if err != nil {
		return err
	}
	store := sqlstore.NewRepository(db, sqlstore.SQLite, nil)
	defer store.Close()
	if err := store.Initialize(ctx); err != nil {
		return err
	}

	repo := &tracedRepository{
		OrderRepository: store,
		w:               w,
		indent:          "  ",
		label:           "SQLite",
		save:            "INSERT",
		find:            "SELECT",
	}
	svc := core.NewService(
		core.WithRepository(repo),
		core.WithPayment(stripe.New(stripe.Config{Endpoint: providers.url, APIKey: "sk_test_hexa"})),
		core.WithNotifier(sendgrid.New(sendgrid.Config{
			Endpoint: providers.url,
			APIKey:   "SG.hexa",
			From:     "shop@example.com",
			To:       "customer@example.com",
		})),
	)

	order, err := svc.PlaceOrder(ctx, sampleItems())
	if err != nil {
		fmt.Fprintf(w, "\n  Error: %v\n\n", err)
		return nil
	}
	fmt.Fprintf(w, "\n  Success! Order %s placed.\n\n", order.ID)

	if retrieved, err := svc.GetOrder(ctx, order.ID); err == nil {
		fmt.Fprintf(w, "  Retrieved: %d items, total %s\n\n", len(retrieved.Items), retrieved.Total)
	}
	return nil
}

// providers is a loopback stand-in for the payment and mail services.
type providers struct {
	url string
	srv *http.Server
}

func startProviders(w io.Writer) (*providers, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("start providers: %w", err)
	}

	r := chi.NewRouter()
	r.Post("/v1/charges", func(rw http.ResponseWriter, req *http.Request) {
		cents, err := strconv.ParseInt(req.FormValue("amount"), 10, 64)
		if err != nil {
			http.Error(rw, `{"error":{"message":"invalid amount"}}`, http.StatusBadRequest)
			return
		}
		fmt.Fprintf(w, "  [Stripe] Charging %s\n", core.Money(cents))
		rw.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(rw, `{"id":"ch_%d","status":"succeeded"}`, time.Now().UnixNano())
	})
	r.Post("/v3/mail/send", func(rw http.ResponseWriter, req *http.Request) {
		var mail sendgrid.Mail
		if err := json.NewDecoder(req.Body).Decode(&mail); err != nil {
			http.Error(rw, err.Error(), http.StatusBadRequest)
			return
		}
		id := strings.TrimSuffix(strings.TrimPrefix(mail.Subject, "Order "), " confirmed")
		fmt.Fprintf(w, "  [SendGrid] Sending confirmation for order %s\n", id)
		rw.WriteHeader(http.StatusAccepted)
	})

	p := &providers{
		url: "http://" + ln.Addr().String(),
		srv: &http.Server{Handler: r, ReadHeaderTimeout: 5 * time.Second},
	}
	go func() {
		if err := p.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(w, "providers stopped: %v\n", err)
		}
	}()
	return p, nil
}

func (p *providers) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = p.srv.Shutdown(ctx)
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
