package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/mehrbod2002/fxmobile/internal/app"
	"github.com/mehrbod2002/fxmobile/internal/client"
	"github.com/mehrbod2002/fxmobile/internal/config"
	"github.com/mehrbod2002/fxmobile/internal/models"
	"github.com/mehrbod2002/fxmobile/internal/storage"
	"github.com/mehrbod2002/fxmobile/internal/theme"
	"github.com/mehrbod2002/fxmobile/internal/validation"
)

const usage = `Commands:
  status | login | signup | logout
  forgot | change-password
  profile | kyc1 | kyc2
  balance | deposit | withdraw | transfer
  plans | accounts | create-account
  bots | toggle-bot
  theme | listen`

var stdin = bufio.NewReader(os.Stdin)

type options struct {
	user        string
	password    string
	confirm     string
	email       string
	country     string
	target      string
	otp         string
	name        string
	mobile      string
	dob         string
	gender      string
	address     string
	poi         string
	poa         string
	amount      string
	wallet      string
	account     string
	accountType string
	group       string
	leverage    string
	plan        string
	mode        string
	page        int
}

func main() {
	cmd := flag.String("cmd", "status", "Command to run (see -help)")
	host := flag.String("server", "", "Override API host (default API_HOST)")
	yes := flag.Bool("yes", false, "Answer yes to every confirmation")
	var o options
	flag.StringVar(&o.user, "user", "", "Email, user name or mobile for login")
	flag.StringVar(&o.password, "password", "", "Password")
	flag.StringVar(&o.confirm, "confirm", "", "Password confirmation")
	flag.StringVar(&o.email, "email", "", "Email for signup")
	flag.StringVar(&o.country, "country", "", "Country code")
	flag.StringVar(&o.target, "target", "", "Email or mobile that receives the OTP")
	flag.StringVar(&o.otp, "otp", "", "OTP code")
	flag.StringVar(&o.name, "name", "", "Full name")
	flag.StringVar(&o.mobile, "mobile", "", "Mobile number")
	flag.StringVar(&o.dob, "dob", "", "Date of birth, YYYY-MM-DD")
	flag.StringVar(&o.gender, "gender", "", "male, female or other")
	flag.StringVar(&o.address, "address", "", "Postal address")
	flag.StringVar(&o.poi, "poi", "", "Proof of identity file")
	flag.StringVar(&o.poa, "poa", "", "Proof of address file")
	flag.StringVar(&o.amount, "amount", "", "Amount in USD")
	flag.StringVar(&o.wallet, "wallet", "", "Withdrawal wallet address")
	flag.StringVar(&o.account, "account", "", "MT5 account ID for transfers")
	flag.StringVar(&o.accountType, "type", "REAL", "MT5 plan type: DEMO or REAL")
	flag.StringVar(&o.group, "group", "", "MT5 group (plan) ID")
	flag.StringVar(&o.leverage, "leverage", "100", "MT5 leverage")
	flag.StringVar(&o.plan, "plan", "", "Bot plan ID")
	flag.StringVar(&o.mode, "mode", "", "Theme mode: system, light or dark")
	flag.IntVar(&o.page, "page", 1, "Page of MT5 accounts")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage of %s:\n", os.Args[0])
		flag.PrintDefaults()
		fmt.Fprintln(flag.CommandLine.Output(), usage)
	}
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	apiHost := cfg.APIHost
	if *host != "" {
		apiHost = strings.TrimRight(*host, "/")
	}

	notifier := &terminalNotifier{out: os.Stdout, in: stdin, autoYes: *yes}
	a := app.New(app.Deps{
		Client:   client.New(apiHost, cfg.HTTPTimeout),
		Store:    storage.NewFileStore(cfg.StoragePath),
		Notifier: notifier,
		PageSize: cfg.PageSize,
	})
	notifier.theme = a.Theme

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := a.Start(ctx); err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	if err := run(ctx, a, *cmd, o); err != nil {
		os.Exit(1)
	}
}

// run executes one command. Errors have already been shown as a toast;
// unknown commands are printed here.
func run(ctx context.Context, a *app.App, cmd string, o options) error {
	switch cmd {
	case "status":
		printStatus(a)
		return nil
	case "login":
		return a.Login(ctx, o.user, o.password)
	case "signup":
		return a.Signup(ctx, validation.SignupForm{Email: o.email, Password: o.password, ConfirmPassword: o.confirm, Country: o.country})
	case "logout":
		return a.Logout()
	case "forgot":
		return forgotPassword(ctx, a, o)
	case "change-password":
		return a.ResetPassword(ctx, o.password, o.confirm)
	case "profile":
		return a.UpdateProfile(ctx, validation.ProfileForm{
			Name: o.name, Mobile: o.mobile, CountryCode: o.country, Dob: o.dob, Gender: o.gender, Address: o.address,
		})
	case "kyc1":
		return a.SubmitKYCLevel1(ctx, validation.KYCLevel1Form{Name: o.name, Dob: o.dob, CountryCode: o.country})
	case "kyc2":
		return submitDocuments(ctx, a, o.poi, o.poa)
	case "balance":
		a.RefreshBalance(ctx)
		fmt.Printf("Available: $%s\n", a.Profile.Snapshot().Balance.StringFixed(2))
		return nil
	case "deposit":
		_, err := a.Deposit(ctx, o.amount)
		return err
	case "withdraw":
		_, err := a.Withdraw(ctx, o.amount, o.wallet)
		return err
	case "transfer":
		_, err := a.Transfer(ctx, o.amount, o.account)
		return err
	case "plans":
		plans, err := a.LoadPlans(ctx, models.PlanType(strings.ToUpper(o.accountType)))
		for _, p := range plans {
			fmt.Printf("%-16s %-10s %s  min $%s\n", p.ID, p.Name, p.Chip(), p.MinDeposit.StringFixed(2))
		}
		return err
	case "accounts":
		page, err := a.LoadAccounts(ctx, o.page)
		for _, acc := range page.List {
			fmt.Printf("%-12s %-5s %-10s 1:%-4d $%s\n", acc.Login, acc.AccountType, acc.GroupName, acc.Leverage, acc.Balance.StringFixed(2))
		}
		return err
	case "create-account":
		acc, err := a.CreateMT5Account(ctx, validation.MT5AccountForm{GroupID: o.group, Leverage: o.leverage, Password: o.password})
		if err == nil {
			fmt.Printf("Login %s in %s\n", acc.Login, acc.GroupName)
		}
		return err
	case "bots":
		overview, err := a.LoadBots(ctx)
		for _, p := range overview.Plans {
			fmt.Printf("%-10s %-10s min $%-10s %s\n", p.ID, p.Name, p.MinimumAmount.StringFixed(2), a.Bots.State(p.ID))
		}
		return err
	case "toggle-bot":
		if _, err := a.LoadBots(ctx); err != nil {
			return err
		}
		_, err := a.ToggleBot(ctx, o.plan)
		return err
	case "theme":
		if o.mode != "" {
			if err := a.Theme.SetMode(theme.Mode(o.mode)); err != nil {
				fmt.Println("Error:", err)
				return err
			}
		}
		fmt.Printf("Theme: %s (dark=%t)\n", a.Theme.Mode(), a.Theme.IsDark())
		return nil
	case "listen":
		fmt.Println("Listening for account updates, Ctrl+C to stop")
		err := a.Listen(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			fmt.Println("Error:", err)
		}
		printStatus(a)
		return err
	}
	fmt.Println("Unknown command:", cmd)
	fmt.Println(usage)
	return errors.New("unknown command")
}

// forgotPassword runs send, verify and reset in one go since the OTP target
// only lives for this process. Without -otp the code is read from stdin.
func forgotPassword(ctx context.Context, a *app.App, o options) error {
	if err := a.SendOTP(ctx, o.target); err != nil {
		return err
	}
	code := o.otp
	if code == "" {
		fmt.Print("OTP: ")
		line, err := stdin.ReadString('\n')
		if err != nil && line == "" {
			fmt.Println("Error:", err)
			return err
		}
		code = strings.TrimSpace(line)
	}
	if err := a.VerifyOTP(ctx, code); err != nil {
		return err
	}
	return a.ResetPassword(ctx, o.password, o.confirm)
}

func submitDocuments(ctx context.Context, a *app.App, poiPath, poaPath string) error {
	docs := make([]client.Document, 0, 2)
	for _, path := range []string{poiPath, poaPath} {
		if path == "" {
			docs = append(docs, client.Document{})
			continue
		}
		f, err := os.Open(path)
		if err != nil {
			fmt.Println("Error:", err)
			return err
		}
		defer f.Close()
		docs = append(docs, client.Document{Name: filepath.Base(path), Reader: f})
	}
	return a.SubmitKYCLevel2(ctx, docs[0], docs[1])
}

func printStatus(a *app.App) {
	if !a.Session.Authenticated() {
		fmt.Println("Not signed in")
		return
	}
	p := a.Profile.Snapshot()
	fmt.Printf("%s <%s>  KYC level %d  balance $%s\n", p.Name, p.Email, p.Level, p.Balance.StringFixed(2))
	if running, ok := a.Bots.Running(); ok {
		fmt.Printf("Running bot: %s\n", running)
	}
	fmt.Printf("Screen: %s\n", a.Router.Current())
}
