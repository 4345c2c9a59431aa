// pushctl is the operator tool for the push subsystem: generate a VAPID key
// pair and send a test notification straight to a stored subscription.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ArrobaLab/maipro/internal/domain"
	"github.com/ArrobaLab/maipro/internal/vapid"
	"github.com/ArrobaLab/maipro/internal/webpush"

	webpushgo "github.com/SherClockHolmes/webpush-go"
)

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "keygen":
		err = runKeygen(args)
	case "send":
		err = runSend(args)
	case "decode":
		err = runDecode(args)
	default:
		usage()
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  keygen   Generate a VAPID key pair")
	fmt.Fprintln(os.Stderr, "  send     Send a test notification to an endpoint")
	fmt.Fprintln(os.Stderr, "  decode   Decode a URL-safe base64 VAPID public key")
	os.Exit(2)
}

func runKeygen(args []string) error {
	fs := flag.NewFlagSet("keygen", flag.ExitOnError)
	export := fs.Bool("export", false, "print as shell export statements")
	if err := fs.Parse(args); err != nil {
		return err
	}

	private, public, err := webpushgo.GenerateVAPIDKeys()
	if err != nil {
		return err
	}
	if *export {
		fmt.Printf("export VAPID_PUBLIC_KEY=%s\n", public)
		fmt.Printf("export VAPID_PRIVATE_KEY=%s\n", private)
		return nil
	}
	fmt.Printf("public:  %s\nprivate: %s\n", public, private)
	return nil
}

func runSend(args []string) error {
	fs := flag.NewFlagSet("send", flag.ExitOnError)
	endpoint := fs.String("endpoint", "", "subscription endpoint URL")
	p256dh := fs.String("p256dh", "", "subscription p256dh key")
	auth := fs.String("auth", "", "subscription auth secret")
	title := fs.String("title", "Ping Maipro", "notification title")
	body := fs.String("body", "test notification", "notification body")
	url := fs.String("url", "https://maipro.work/pwa/", "notification click target")
	subject := fs.String("subject", os.Getenv("VAPID_SUBJECT"), "VAPID subject (mailto: address)")
	timeout := fs.Duration("timeout", 30*time.Second, "send timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *endpoint == "" || *p256dh == "" || *auth == "" {
		return fmt.Errorf("endpoint, p256dh and auth are required")
	}
	publicKey := os.Getenv("VAPID_PUBLIC_KEY")
	privateKey := os.Getenv("VAPID_PRIVATE_KEY")
	if publicKey == "" || privateKey == "" {
		return fmt.Errorf("VAPID_PUBLIC_KEY and VAPID_PRIVATE_KEY must be set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	sender := webpush.NewSender(*subject, publicKey, privateKey)
	rec := &domain.SubscriptionRecord{
		Endpoint: *endpoint,
		P256dh:   *p256dh,
		Auth:     *auth,
	}
	if err := sender.Dispatch(ctx, rec, domain.NotificationPayload{
		Title: *title,
		Body:  *body,
		URL:   *url,
	}); err != nil {
		return err
	}
	fmt.Println("sent")
	return nil
}

func runDecode(args []string) error {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: decode <key>")
	}
	raw, err := vapid.Decode(fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Printf("%d bytes: %x\n", len(raw), raw)
	return nil
}
