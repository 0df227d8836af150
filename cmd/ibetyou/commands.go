package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/IBetYou/ibetyou-contract/auth"
	"github.com/IBetYou/ibetyou-contract/client"
	"github.com/IBetYou/ibetyou-contract/contracts"
	"github.com/IBetYou/ibetyou-contract/deploy"
	"github.com/IBetYou/ibetyou-contract/rpc/bet"
	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/spf13/cobra"
)

// Bet sides of judges and candidates.
const (
	sideBettor        = "bettor"
	sideCounterBettor = "counter-bettor"
)

// Roles to join.
const (
	roleCounterBettor      = "counter-bettor"
	roleBettorJudge        = "bettor-judge"
	roleCounterBettorJudge = "counter-bettor-judge"
)

// withClient connects to the chain and runs f with the escrow client.
func (a *app) withClient(ctx context.Context, f func(x *remoteChain, c *client.Client) error) error {
	x, err := dialChain(ctx, a.cfg)
	if err != nil {
		return err
	}
	defer x.close()

	c, err := a.newClient(x)
	if err != nil {
		return err
	}

	return f(x, c)
}

// userOrSelf parses public key from s or returns the wallet key if s is
// empty.
func userOrSelf(s string, x *remoteChain) (*keys.PublicKey, error) {
	if s == "" {
		return x.publicKey(), nil
	}
	return parsePublicKey(s)
}

func parsePublicKey(s string) (*keys.PublicKey, error) {
	k, err := keys.NewPublicKeyFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid public key %q: %w", s, err)
	}
	return k, nil
}

func parseSignature(s string) ([]byte, error) {
	sig, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("decode signature: %w", err)
	}
	if len(sig) != auth.SignatureLen {
		return nil, fmt.Errorf("invalid signature length %d", len(sig))
	}
	return sig, nil
}

func keyString(k *keys.PublicKey) string {
	if k == nil {
		return "-"
	}
	return hex.EncodeToString(k.Bytes())
}

func (a *app) deployCmd() *cobra.Command {
	var (
		compiledDir string
		srcDir      string
		owner       string
		update      bool
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy or update escrow contracts",
		Long: `Deploy Account, Bet and Master contracts bound to each other on behalf of
the wallet account. Contracts are read either from the directory with compiled
<name>/contract.nef and <name>/manifest.json files or compiled from sources.

With --update contracts bound to the configured Master contract are updated
in place, so balances kept by Account contract survive the code change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				cs  []contracts.Contract
				err error
			)

			switch {
			case srcDir != "":
				cs, err = contracts.Compile(srcDir)
			case compiledDir != "":
				cs, err = contracts.Read(os.DirFS(compiledDir))
			default:
				return errors.New("either --contracts or --src must be set")
			}
			if err != nil {
				return err
			}

			prm := deploy.Prm{
				Logger: a.logger,
				Update: update,
			}

			if owner != "" {
				prm.Owner, err = address.StringToUint160(owner)
				if err != nil {
					return fmt.Errorf("invalid owner address: %w", err)
				}
			}

			if update {
				if a.cfg.Contracts.Master == "" {
					return deploy.ErrMissingMaster
				}
				prm.Master, err = parseHash(a.cfg.Contracts.Master)
				if err != nil {
					return fmt.Errorf("invalid Master contract address: %w", err)
				}
			}

			for _, c := range cs {
				p := deploy.CommonDeployPrm{NEF: c.NEF, Manifest: c.Manifest}
				switch c.Name {
				case "account":
					prm.AccountContract = p
				case "bet":
					prm.BetContract = p
				case "master":
					prm.MasterContract = p
				}
			}

			x, err := dialChain(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			defer x.close()

			prm.Blockchain = x.rpc
			prm.LocalAccount = x.account

			addrs, err := deploy.Deploy(cmd.Context(), prm)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "account: %s\n", addrs.Account.StringLE())
			fmt.Fprintf(out, "bet:     %s\n", addrs.Bet.StringLE())
			fmt.Fprintf(out, "master:  %s\n", addrs.Master.StringLE())
			return nil
		},
	}

	cmd.Flags().StringVar(&compiledDir, "contracts", "", "directory with compiled contracts")
	cmd.Flags().StringVar(&srcDir, "src", "", "directory with contract sources to compile")
	cmd.Flags().StringVar(&owner, "owner", "", "owner address of the contracts (wallet account by default)")
	cmd.Flags().BoolVar(&update, "update", false, "update contracts bound to the configured Master contract")

	return cmd
}

func (a *app) addBalanceCmd() *cobra.Command {
	var (
		user   string
		amount int64
	)

	cmd := &cobra.Command{
		Use:   "add-balance",
		Short: "Credit the user on behalf of the Account contract owner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withClient(cmd.Context(), func(x *remoteChain, c *client.Client) error {
				u, err := userOrSelf(user, x)
				if err != nil {
					return err
				}
				return c.AddBalance(cmd.Context(), u, amount)
			})
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "public key of the user (wallet key by default)")
	cmd.Flags().Int64Var(&amount, "amount", 0, "amount to credit")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func (a *app) signIncreaseCmd() *cobra.Command {
	var amount int64

	cmd := &cobra.Command{
		Use:   "sign-increase",
		Short: "Sign the credit of the wallet account balance",
		Long: `Sign the credit of the wallet account balance with its key. Signature is
printed in base58 and can be submitted by anyone with increase-balance.
Signing is done offline, so the Account contract address must be configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			accountHash, err := parseHash(a.cfg.Contracts.Account)
			if err != nil {
				return fmt.Errorf("invalid Account contract address: %w", err)
			}

			acc, err := openAccount(a.cfg)
			if err != nil {
				return err
			}

			sig, err := auth.IncreaseBalance(acc.PrivateKey(), accountHash, amount)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "user:      %s\n", keyString(acc.PrivateKey().PublicKey()))
			fmt.Fprintf(cmd.OutOrStdout(), "signature: %s\n", base58.Encode(sig))
			return nil
		},
	}

	cmd.Flags().Int64Var(&amount, "amount", 0, "amount to credit")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func (a *app) increaseBalanceCmd() *cobra.Command {
	var (
		user      string
		amount    int64
		signature string
	)

	cmd := &cobra.Command{
		Use:   "increase-balance",
		Short: "Credit the user with the signature made by sign-increase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sig, err := parseSignature(signature)
			if err != nil {
				return err
			}

			return a.withClient(cmd.Context(), func(x *remoteChain, c *client.Client) error {
				u, err := userOrSelf(user, x)
				if err != nil {
					return err
				}
				return c.IncreaseBalance(cmd.Context(), u, amount, sig)
			})
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "public key of the user (wallet key by default)")
	cmd.Flags().Int64Var(&amount, "amount", 0, "amount to credit")
	cmd.Flags().StringVar(&signature, "signature", "", "base58 signature produced by sign-increase")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("signature")

	return cmd
}

func (a *app) createBetCmd() *cobra.Command {
	var (
		betID  string
		admin  string
		amount int64
	)

	cmd := &cobra.Command{
		Use:   "create-bet",
		Short: "Open a bet with the wallet account as the bettor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			adminKey, err := parsePublicKey(admin)
			if err != nil {
				return err
			}

			id := client.NewBetID()
			if betID != "" {
				id, err = client.DecodeBetID(betID)
				if err != nil {
					return err
				}
			}

			return a.withClient(cmd.Context(), func(x *remoteChain, c *client.Client) error {
				err := c.CreateBet(cmd.Context(), id, x.publicKey(), amount, adminKey)
				if err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), client.EncodeBetID(id))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&betID, "bet", "", "base58 bet id (random by default)")
	cmd.Flags().StringVar(&admin, "admin", "", "public key of the bet admin")
	cmd.Flags().Int64Var(&amount, "amount", 0, "stake of every bettor")
	_ = cmd.MarkFlagRequired("admin")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func (a *app) joinCmd() *cobra.Command {
	var (
		betID  string
		role   string
		amount int64
	)

	cmd := &cobra.Command{
		Use:   "join",
		Short: "Take a role in the bet with the wallet account",
		Long: `Take a role in the bet with the wallet account. Roles are counter-bettor
(requires --amount equal to the bet stake), bettor-judge and
counter-bettor-judge.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := client.DecodeBetID(betID)
			if err != nil {
				return err
			}

			return a.withClient(cmd.Context(), func(x *remoteChain, c *client.Client) error {
				ctx, user := cmd.Context(), x.publicKey()

				switch role {
				case roleCounterBettor:
					return c.JoinCounterBettor(ctx, id, user, amount)
				case roleBettorJudge:
					return c.JoinBettorJudge(ctx, id, user)
				case roleCounterBettorJudge:
					return c.JoinCounterBettorJudge(ctx, id, user)
				default:
					return fmt.Errorf("unknown role %q", role)
				}
			})
		},
	}

	cmd.Flags().StringVar(&betID, "bet", "", "base58 bet id")
	cmd.Flags().StringVar(&role, "role", "", "role to take: counter-bettor, bettor-judge, counter-bettor-judge")
	cmd.Flags().Int64Var(&amount, "amount", 0, "stake of the counter bettor")
	_ = cmd.MarkFlagRequired("bet")
	_ = cmd.MarkFlagRequired("role")

	return cmd
}

// signedFlow describes the operation either witnessed by the wallet account,
// signed offline by it or relayed with the signature of another user.
type signedFlow struct {
	betID     string
	signer    string
	signature string
	signOnly  bool
}

func (s *signedFlow) bind(cmd *cobra.Command, signerFlag, signerDesc string) {
	cmd.Flags().StringVar(&s.betID, "bet", "", "base58 bet id")
	cmd.Flags().StringVar(&s.signer, signerFlag, "", signerDesc+" (wallet key by default)")
	cmd.Flags().StringVar(&s.signature, "signature", "", "base58 signature to relay on behalf of "+signerFlag)
	cmd.Flags().BoolVar(&s.signOnly, "sign-only", false, "print signature made with the wallet key instead of sending a transaction")
	cmd.MarkFlagsMutuallyExclusive("signature", "sign-only")
	_ = cmd.MarkFlagRequired("bet")
}

type signFunc func(key *keys.PrivateKey, master util.Uint160, betID []byte, candidate *keys.PublicKey) ([]byte, error)

type sendFunc func(ctx context.Context, betID []byte, signer, candidate *keys.PublicKey) error

type relayFunc func(ctx context.Context, betID []byte, signer, candidate *keys.PublicKey, sig []byte) error

// run performs the operation over the candidate key.
func (s *signedFlow) run(ctx context.Context, a *app, out io.Writer, candidate *keys.PublicKey,
	sign signFunc, send func(*client.Client) (sendFunc, relayFunc)) error {
	id, err := client.DecodeBetID(s.betID)
	if err != nil {
		return err
	}

	if s.signOnly {
		masterHash, err := parseHash(a.cfg.Contracts.Master)
		if err != nil {
			return fmt.Errorf("invalid Master contract address: %w", err)
		}

		acc, err := openAccount(a.cfg)
		if err != nil {
			return err
		}

		sig, err := sign(acc.PrivateKey(), masterHash, id, candidate)
		if err != nil {
			return err
		}

		fmt.Fprintln(out, base58.Encode(sig))
		return nil
	}

	var sig []byte
	if s.signature != "" {
		if s.signer == "" {
			return errors.New("signer key is required to relay the signature")
		}
		if sig, err = parseSignature(s.signature); err != nil {
			return err
		}
	}

	return a.withClient(ctx, func(x *remoteChain, c *client.Client) error {
		signer, err := userOrSelf(s.signer, x)
		if err != nil {
			return err
		}

		witnessed, relayed := send(c)
		if sig != nil {
			return relayed(ctx, id, signer, candidate, sig)
		}
		return witnessed(ctx, id, signer, candidate)
	})
}

func (a *app) voteCmd() *cobra.Command {
	var (
		flow      signedFlow
		side      string
		candidate string
	)

	cmd := &cobra.Command{
		Use:   "vote",
		Short: "Vote for the bet winner as a judge",
		Long: `Vote for the bet winner as the judge of the given side. The vote is sent
by the judge wallet, signed offline with --sign-only or relayed by anyone
with --signature and --judge.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cand, err := parsePublicKey(candidate)
			if err != nil {
				return err
			}

			var sign signFunc
			var send func(*client.Client) (sendFunc, relayFunc)

			switch side {
			case sideBettor:
				sign = auth.BettorJudgeVote
				send = func(c *client.Client) (sendFunc, relayFunc) {
					return c.BettorJudgeVote, c.BettorJudgeVoteSigned
				}
			case sideCounterBettor:
				sign = auth.CounterBettorJudgeVote
				send = func(c *client.Client) (sendFunc, relayFunc) {
					return c.CounterBettorJudgeVote, c.CounterBettorJudgeVoteSigned
				}
			default:
				return fmt.Errorf("unknown judge side %q", side)
			}

			return flow.run(cmd.Context(), a, cmd.OutOrStdout(), cand, sign, send)
		},
	}

	flow.bind(cmd, "judge", "public key of the judge")
	cmd.Flags().StringVar(&side, "side", "", "side of the judge: bettor, counter-bettor")
	cmd.Flags().StringVar(&candidate, "candidate", "", "public key of the bettor voted for")
	_ = cmd.MarkFlagRequired("side")
	_ = cmd.MarkFlagRequired("candidate")

	return cmd
}

func (a *app) solveDisputeCmd() *cobra.Command {
	var (
		flow   signedFlow
		winner string
	)

	cmd := &cobra.Command{
		Use:   "solve-dispute",
		Short: "Decide the disputed bet as its admin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := parsePublicKey(winner)
			if err != nil {
				return err
			}

			return flow.run(cmd.Context(), a, cmd.OutOrStdout(), w, auth.SolveDispute,
				func(c *client.Client) (sendFunc, relayFunc) {
					return c.SolveDispute, c.SolveDisputeSigned
				})
		},
	}

	flow.bind(cmd, "admin", "public key of the bet admin")
	cmd.Flags().StringVar(&winner, "winner", "", "public key of the winning bettor")
	_ = cmd.MarkFlagRequired("winner")

	return cmd
}

func (a *app) withdrawCmd() *cobra.Command {
	var betID string

	cmd := &cobra.Command{
		Use:   "withdraw",
		Short: "Pay the pot of the decided bet to the winner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := client.DecodeBetID(betID)
			if err != nil {
				return err
			}

			return a.withClient(cmd.Context(), func(_ *remoteChain, c *client.Client) error {
				winner, amount, err := c.Withdraw(cmd.Context(), id)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "winner: %s\namount: %d\n", keyString(winner), amount)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&betID, "bet", "", "base58 bet id")
	_ = cmd.MarkFlagRequired("bet")

	return cmd
}

func (a *app) statusCmd() *cobra.Command {
	var betID string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print the bet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := client.DecodeBetID(betID)
			if err != nil {
				return err
			}

			return a.withClient(cmd.Context(), func(_ *remoteChain, c *client.Client) error {
				st, err := c.Status(id)
				if err != nil {
					return err
				}

				printStatus(cmd.OutOrStdout(), id, st)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&betID, "bet", "", "base58 bet id")
	_ = cmd.MarkFlagRequired("bet")

	return cmd
}

func printStatus(w io.Writer, id []byte, st *bet.Status) {
	fmt.Fprintf(w, "bet:                       %s\n", client.EncodeBetID(id))
	fmt.Fprintf(w, "state:                     %s\n", bet.StateName(st.State.Int64()))
	fmt.Fprintf(w, "amount:                    %s\n", st.Amount)
	fmt.Fprintf(w, "admin:                     %s\n", keyString(st.Admin))
	fmt.Fprintf(w, "bettor:                    %s\n", keyString(st.Bettor))
	fmt.Fprintf(w, "counter bettor:            %s\n", keyString(st.CounterBettor))
	fmt.Fprintf(w, "bettor judge:              %s\n", keyString(st.BettorJudge))
	fmt.Fprintf(w, "counter bettor judge:      %s\n", keyString(st.CounterBettorJudge))
	fmt.Fprintf(w, "bettor judge vote:         %s\n", keyString(st.BettorJudgeVote))
	fmt.Fprintf(w, "counter bettor judge vote: %s\n", keyString(st.CounterBettorJudgeVote))
	fmt.Fprintf(w, "winner:                    %s\n", keyString(st.Winner))
}

func (a *app) balanceCmd() *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Print the user balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withClient(cmd.Context(), func(x *remoteChain, c *client.Client) error {
				u, err := userOrSelf(user, x)
				if err != nil {
					return err
				}

				b, err := c.Balance(u)
				if err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), b)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "public key of the user (wallet key by default)")

	return cmd
}
