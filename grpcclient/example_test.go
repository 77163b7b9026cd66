package grpcclient_test

import (
	"fmt"
	"log"

	"github.com/AmmannChristian/go-ccauth/grpcclient"
)

// Example shows a connection using system roots. Connecting is lazy, so no
// server is contacted here.
func Example() {
	conn, err := grpcclient.NewBuilder().
		WithAddress("orders.example.com:9090").
		Build()
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	fmt.Println("target:", conn.Target())
	// Output: target: orders.example.com:9090
}

// ExampleBuilder_WithTLS shows that a client certificate needs its key.
func ExampleBuilder_WithTLS() {
	_, err := grpcclient.NewBuilder().
		WithAddress("orders.example.com:9090").
		WithTLS("", "/etc/ccauth/client.crt", "", "orders.example.com").
		Build()
	fmt.Println(err)
	// Output: grpcclient: TLS config failed: both TLS cert and key files must be provided for mTLS
}
