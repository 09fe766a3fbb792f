package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	accountsservice "resa/internal/accounts/service"
	"resa/internal/platform/config"
	"resa/internal/platform/logger"
	"resa/internal/platform/metrics"
)

// defaultGeoName seeds both the province and the city an admin is placed in.
const defaultGeoName = "تهران"

type adminInput struct {
	username string
	phone    string
	password string
}

func newCreateAdminCommand() *cobra.Command {
	var in adminInput
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create a staff user in the default province and city",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			if err := promptMissing(&in, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				return err
			}

			log := logger.New(cfg.LogLevel)
			a, err := newApp(cfg, log, metrics.NewRegistry())
			if err != nil {
				return err
			}
			defer a.close()

			profileID, err := createAdmin(cmd.Context(), a, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %q created (profile %s)\n", in.username, profileID)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.username, "username", "", "admin username")
	cmd.Flags().StringVar(&in.phone, "phone", "", "admin phone number (09XXXXXXXXX)")
	cmd.Flags().StringVar(&in.password, "password", "", "admin password; prompted without echo when omitted")
	return cmd
}

// createAdmin validates through the regular user pipeline, so the admin
// obeys the same username, phone and password rules as any other user.
func createAdmin(ctx context.Context, a *app, in adminInput) (string, error) {
	var profileID string
	err := a.tx.RunInTx(ctx, func(ctx context.Context) error {
		province, err := a.geo.EnsureProvince(ctx, defaultGeoName)
		if err != nil {
			return err
		}
		city, err := a.geo.EnsureCity(ctx, province.ID, defaultGeoName)
		if err != nil {
			return err
		}
		profile, err := a.accounts.CreateUser(ctx, accountsservice.CreateUserCommand{
			Username:    in.username,
			PhoneNumber: in.phone,
			Password:    in.password,
			ProvinceID:  province.ID,
			CityID:      city.ID,
			IsStaff:     true,
		})
		if err != nil {
			return err
		}
		profileID = profile.ID.String()
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("create admin: %w", err)
	}
	return profileID, nil
}

func promptMissing(in *adminInput, stdin io.Reader, stdout io.Writer) error {
	reader := bufio.NewReader(stdin)
	var err error
	if in.username == "" {
		if in.username, err = promptLine(reader, stdout, "please enter username: "); err != nil {
			return err
		}
	}
	if in.phone == "" {
		if in.phone, err = promptLine(reader, stdout, "please enter phone number: "); err != nil {
			return err
		}
	}
	if in.password == "" {
		if in.password, err = promptPassword(reader, stdout); err != nil {
			return err
		}
	}
	return nil
}

func promptLine(reader *bufio.Reader, stdout io.Writer, label string) (string, error) {
	fmt.Fprint(stdout, label)
	line, err := reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(reader *bufio.Reader, stdout io.Writer) (string, error) {
	fd := int(syscall.Stdin)
	if !term.IsTerminal(fd) {
		return promptLine(reader, stdout, "please enter password: ")
	}
	fmt.Fprint(stdout, "please enter password: ")
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(stdout)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

