// Command kafka-producer generates synthetic order submissions and writes
// them to the order topic this module's matching engine consumes from, for
// local load testing.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// order mirrors internal/usecase/orderreader's wireRequest — kept as a
// separate type here since wireRequest is unexported and this tool imports
// no engine package, only reproducing the wire shape.
type order struct {
	ID     string  `json:"id"`
	UserID string  `json:"userID"`
	Type   string  `json:"type"`
	Side   string  `json:"side"`
	Price  float64 `json:"price"`
	Qty    uint64  `json:"qty"`
}

var orderTypes = []string{"limit", "limit", "limit", "market", "ioc", "fok"}

func generateRandomID(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	var result strings.Builder
	for i := 0; i < length; i++ {
		result.WriteByte(charset[rand.Intn(len(charset))])
	}
	return result.String()
}

func generateOrders(count int, basePrice, priceSpread float64) []order {
	orders := make([]order, count)

	for i := 0; i < count; i++ {
		orderType := orderTypes[rand.Intn(len(orderTypes))]
		side := "sell"
		if rand.Float64() < 0.5 {
			side = "buy"
		}

		qty := uint64(1 + rand.Intn(1000))

		var price float64
		switch {
		case orderType == "market":
			price = 0
		case side == "buy":
			price = basePrice - rand.Float64()*priceSpread*0.8
		default:
			price = basePrice + rand.Float64()*priceSpread*0.8
		}
		price = float64(int(price*10)) / 10
		if orderType != "market" && price <= 0 {
			price = basePrice
		}

		orders[i] = order{
			ID:     generateRandomID(rand.Intn(4) + 8),
			UserID: generateRandomID(rand.Intn(4) + 6),
			Type:   orderType,
			Side:   side,
			Price:  price,
			Qty:    qty,
		}
	}

	return orders
}

func main() {
	var (
		brokers     = flag.String("brokers", "localhost:9092", "Kafka broker address")
		topic       = flag.String("topic", "orders", "Kafka order topic name")
		file        = flag.String("file", "", "JSON file with orders (optional, generates orders if not provided)")
		delay       = flag.Duration("delay", 100*time.Millisecond, "Delay between sending orders")
		count       = flag.Int("count", 1000, "Number of orders to generate")
		basePrice   = flag.Float64("base-price", 100.0, "Base price for generated orders")
		priceSpread = flag.Float64("price-spread", 20.0, "Price spread range for generated orders")
	)
	flag.Parse()

	writer := &kafka.Writer{
		Addr:         kafka.TCP(*brokers),
		Topic:        *topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}
	defer writer.Close()

	ctx := context.Background()

	var orders []order
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			log.Fatalf("failed to read file %s: %v", *file, err)
		}
		if err := json.Unmarshal(data, &orders); err != nil {
			log.Fatalf("failed to parse JSON from file: %v", err)
		}
		log.Printf("loaded %d orders from file: %s", len(orders), *file)
	} else {
		log.Printf("generating %d orders...", *count)
		orders = generateOrders(*count, *basePrice, *priceSpread)
	}

	log.Printf("sending orders to broker %s, topic %s", *brokers, *topic)

	for i, o := range orders {
		payload, err := json.Marshal(o)
		if err != nil {
			log.Printf("failed to marshal order %d: %v", i+1, err)
			continue
		}

		msg := kafka.Message{Key: []byte(o.ID), Value: payload, Time: time.Now()}
		if err := writer.WriteMessages(ctx, msg); err != nil {
			log.Printf("failed to send order %d (%s): %v", i+1, o.ID, err)
			continue
		}

		if (i+1)%100 == 0 || i == len(orders)-1 {
			log.Printf("sent order %d/%d: %s %s %s qty=%d price=%.1f",
				i+1, len(orders), o.ID, o.Type, o.Side, o.Qty, o.Price)
		}

		if i < len(orders)-1 {
			time.Sleep(*delay)
		}
	}

	log.Printf("done: sent %d orders", len(orders))
}
