package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/martijn/clientdb/internal/core/domain"
	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the demonstration scenario",
	Long: `Recreate the schema (all existing data is lost) and walk through adding,
searching, updating and deleting clients and phone numbers, printing the store
after every step.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		return runDemo(cmd.Context(), services, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

type demoClient struct {
	firstName string
	surname   string
	email     string
	phones    []string
}

var demoClients = []demoClient{
	{"Michael", "Scott", "m.scott@gmail.com", []string{"+1000011"}},
	{"Dwight", "Schrute", "d.schrute@yahoo.com", []string{"+1000012", "+10025647"}},
	{"Jim", "Halpert", "j.halpert@aol.com", nil},
	{"Pam", "Beesly", "p.beesly@gmail.com", []string{"+1089089872", "+71828182"}},
}

func runDemo(ctx context.Context, s *Services, out io.Writer) error {
	step := func(title string) error {
		fmt.Fprintf(out, "\n== %s\n", title)
		return printClients(ctx, s, out)
	}

	if err := s.Schema.Create(ctx); err != nil {
		return err
	}
	if err := step("schema created"); err != nil {
		return err
	}

	ids := make([]int64, len(demoClients))
	for i, c := range demoClients {
		client := domain.NewClient(c.firstName, c.surname, c.email)
		if err := s.ClientRepo.Create(ctx, client); err != nil {
			return err
		}
		ids[i] = client.ID
		for _, phone := range c.phones {
			if err := s.ClientRepo.AddPhone(ctx, client.ID, phone); err != nil {
				return err
			}
		}
		log.InfoContext(ctx, "client added", "client_id", client.ID, "phones", len(c.phones))
	}
	if err := step("clients added"); err != nil {
		return err
	}

	michael, dwight, pam := ids[0], ids[1], ids[3]
	phone := "+71828182"

	found, err := s.ClientRepo.Find(ctx, domain.ClientSearch{PhoneNumber: &phone})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n== clients with phone %s: %v\n", phone, found)

	if err := s.ClientRepo.DeletePhone(ctx, pam, phone); err != nil {
		return err
	}
	if err := step(fmt.Sprintf("phone %s of client %d deleted", phone, pam)); err != nil {
		return err
	}

	if err := s.ClientRepo.Delete(ctx, michael); err != nil {
		return err
	}
	if err := step(fmt.Sprintf("client %d deleted", michael)); err != nil {
		return err
	}

	email, surname := "d.rute@gmail.com", "Rute"
	if err := s.ClientRepo.Update(ctx, dwight, domain.ClientUpdate{Email: &email, Surname: &surname}); err != nil {
		return err
	}
	return step(fmt.Sprintf("client %d updated", dwight))
}

func printClients(ctx context.Context, s *Services, out io.Writer) error {
	clients, err := s.ClientRepo.List(ctx)
	if err != nil {
		return err
	}

	if len(clients) == 0 {
		fmt.Fprintln(out, "No clients found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CLIENT ID\tFIRST NAME\tSURNAME\tEMAIL\tPHONES")
	for _, c := range clients {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			c.ID,
			c.FirstName,
			c.Surname,
			c.Email,
			strings.Join(c.Phones, ", "),
		)
	}
	return w.Flush()
}
