// Command ed25519ctl is a small CLI around this module's Ed25519 and
// Ristretto255 primitives: key generation, signing, verification, and
// hashing arbitrary input to a Ristretto255 group element.
package main

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/sha3"

	"github.com/curvekit/ed25519ristretto/ed25519"
	"github.com/curvekit/ed25519ristretto/edwards25519"
)

var logger *zap.Logger

func main() {
	var err error
	logger, err = zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "ed25519ctl: logger init failed:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := rootCmd().Execute(); err != nil {
		logger.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ed25519ctl",
		Short: "Ed25519 / Ristretto255 command-line utility",
	}
	root.AddCommand(keygenCmd(), signCmd(), verifyCmd(), ristrettoMapCmd())
	return root
}

func keygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "generate a new Ed25519 key pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			sk, err := ed25519.GenerateKey(nil)
			if err != nil {
				return err
			}
			pub := sk.Public().(*ed25519.PublicKey)
			fmt.Printf("private: %s\n", hex.EncodeToString(sk.Encode(nil)))
			fmt.Printf("public:  %s\n", hex.EncodeToString(pub.Encode(nil)))
			logger.Info("generated key pair")
			return nil
		},
	}
}

func signCmd() *cobra.Command {
	var seedHex, message string
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "sign a hex-encoded message with a hex-encoded seed",
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := hex.DecodeString(seedHex)
			if err != nil {
				return fmt.Errorf("ed25519ctl: bad seed: %w", err)
			}
			msg, err := hex.DecodeString(message)
			if err != nil {
				return fmt.Errorf("ed25519ctl: bad message: %w", err)
			}
			sk, err := ed25519.NewPrivateKeyFromSeed(seed)
			if err != nil {
				return err
			}
			sig, err := ed25519.Sign(sk, msg)
			if err != nil {
				return err
			}
			fmt.Println(hex.EncodeToString(sig))
			logger.Info("signed message", zap.Int("message_len", len(msg)))
			return nil
		},
	}
	cmd.Flags().StringVar(&seedHex, "seed", "", "32-byte hex seed")
	cmd.Flags().StringVar(&message, "message", "", "hex-encoded message")
	return cmd
}

func verifyCmd() *cobra.Command {
	var pubHex, sigHex, message string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "verify a hex-encoded signature against a hex-encoded public key",
		RunE: func(cmd *cobra.Command, args []string) error {
			pubBytes, err := hex.DecodeString(pubHex)
			if err != nil {
				return fmt.Errorf("ed25519ctl: bad public key: %w", err)
			}
			sig, err := hex.DecodeString(sigHex)
			if err != nil {
				return fmt.Errorf("ed25519ctl: bad signature: %w", err)
			}
			msg, err := hex.DecodeString(message)
			if err != nil {
				return fmt.Errorf("ed25519ctl: bad message: %w", err)
			}
			pub, err := ed25519.DecodePublicKey(pubBytes)
			if err != nil {
				return err
			}
			ok := ed25519.Verify(pub, msg, sig)
			fmt.Println(ok)
			logger.Info("verified signature", zap.Bool("ok", ok))
			if !ok {
				os.Exit(1)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&pubHex, "pub", "", "32-byte hex public key")
	cmd.Flags().StringVar(&sigHex, "sig", "", "64-byte hex signature")
	cmd.Flags().StringVar(&message, "message", "", "hex-encoded message")
	return cmd
}

func ristrettoMapCmd() *cobra.Command {
	var input, hasher string
	cmd := &cobra.Command{
		Use:   "ristretto-map",
		Short: "hash input to a Ristretto255 group element",
		RunE: func(cmd *cobra.Command, args []string) error {
			var h [64]byte
			switch hasher {
			case "sha512", "":
				h = sha512.Sum512([]byte(input))
			case "shake256":
				sha3.ShakeSum256(h[:], []byte(input))
			default:
				return fmt.Errorf("ed25519ctl: unknown hasher %q", hasher)
			}
			p, err := edwards25519.FromRistrettoHash(h[:])
			if err != nil {
				return err
			}
			fmt.Println(hex.EncodeToString(p.ToRistrettoBytes()))
			logger.Info("mapped input to Ristretto255 point", zap.String("hasher", hasher))
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "input string to hash")
	cmd.Flags().StringVar(&hasher, "hasher", "sha512", "hasher to use: sha512 or shake256")
	return cmd
}
