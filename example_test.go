package hexa_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aretw0/hexa"
	"github.com/aretw0/hexa/pkg/core"
)

// Example_basic places an order with in-memory adapters and reads it back.
func Example_basic() {
	ctx := context.Background()

	inst, err := hexa.New(ctx, "",
		hexa.WithAdapter(hexa.AdapterMemory),
		hexa.WithOutput(os.Stdout),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer inst.Close()

	order, err := inst.Service.PlaceOrder(ctx, []core.LineItem{
		{Name: "Rust Book", Price: 4999},
		{Name: "Keyboard", Price: 12999},
	})
	if err != nil {
		log.Fatal(err)
	}

	found, err := inst.Service.GetOrder(ctx, order.ID)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Retrieved: %d items, total %s\n", len(found.Items), found.Total)
	// Output:
	//   [MockPayment] Charging $179.98
	// [Console] Order #1 confirmed! Total: $179.98
	// Retrieved: 2 items, total $179.98
}

// ExampleNew_files stores orders as YAML documents in a directory.
func ExampleNew_files() {
	ctx := context.Background()

	dir, err := os.MkdirTemp("", "hexa-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	inst, err := hexa.New(ctx, dir,
		hexa.WithAdapter(hexa.AdapterFS),
		hexa.WithPaymentProvider(hexa.ProviderNone),
		hexa.WithNotifierProvider(hexa.ProviderNone),
	)
	if err != nil {
		log.Fatal(err)
	}

	for _, total := range []core.Money{4999, 42} {
		if _, err := inst.Service.ProcessOrder(ctx, total); err != nil {
			log.Fatal(err)
		}
	}

	orders, err := inst.Service.ListOrders(ctx)
	if err != nil {
		log.Fatal(err)
	}
	for _, o := range orders {
		fmt.Println(o.ID, o.Total)
	}
	// Output:
	// #1 $49.99
	// #2 $0.42
}
