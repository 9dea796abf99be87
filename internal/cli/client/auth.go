package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// Me is the caller's profile.
type Me struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Region   string `json:"region"`
	Language string `json:"language"`
}

// LoginCmd stores the identity the CLI acts as.
func LoginCmd() *cobra.Command {
	var apiURL string

	cmd := &cobra.Command{
		Use:   "login <user-id>",
		Short: "Log in as a user",
		Long:  "Verify the user id against the server and store it as the local profile (~/.config/hrnexus/config.json)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			me, err := runLogin(args[0], apiURL)
			if err != nil {
				return err
			}
			fmt.Printf("Logged in as %s (%s, %s)\n", me.Name, me.Role, me.Region)
			return nil
		},
	}

	cmd.Flags().StringVar(&apiURL, "url", defaultAPIURL, "API URL")

	return cmd
}

// LogoutCmd clears the stored identity.
func LogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and clear the stored identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := DeleteProfile(); err != nil {
				return fmt.Errorf("failed to logout: %w", err)
			}
			fmt.Println("Successfully logged out")
			return nil
		},
	}
}

// WhoamiCmd shows who the CLI acts as.
func WhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current user",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}
			resp, err := api.Get("/me")
			if err != nil {
				return err
			}
			var me Me
			if err := json.Unmarshal(resp.Data, &me); err != nil {
				return fmt.Errorf("failed to parse profile: %w", err)
			}
			if jsonOutput(cmd) {
				return printJSON(me)
			}
			printMe(&me)
			return nil
		},
	}
}

// LanguageCmd changes the preferred reply language.
func LanguageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "language <language>",
		Short: "Set your preferred reply language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}
			resp, err := api.Put("/me/language", map[string]string{"language": args[0]})
			if err != nil {
				return err
			}
			var me Me
			if err := json.Unmarshal(resp.Data, &me); err != nil {
				return fmt.Errorf("failed to parse profile: %w", err)
			}
			fmt.Printf("Replies will be in %s\n", me.Language)
			return nil
		},
	}
}

func runLogin(userID, apiURL string) (*Me, error) {
	userID = strings.TrimSpace(userID)
	if !ValidUserID(userID) {
		return nil, fmt.Errorf("invalid user id %q", userID)
	}
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	api := NewAPIClientWithConfig(userID, apiURL)
	resp, err := api.Get("/me")
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	var me Me
	if err := json.Unmarshal(resp.Data, &me); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}

	profile := &Profile{
		UserID:    me.ID,
		APIURL:    apiURL,
		SessionID: api.SessionID(),
	}
	if err := SaveProfile(profile); err != nil {
		return nil, fmt.Errorf("failed to save credentials: %w", err)
	}
	return &me, nil
}

func printMe(me *Me) {
	fmt.Printf("User: %s (%s)\n", me.Name, me.ID)
	fmt.Printf("Role: %s\n", me.Role)
	fmt.Printf("Region: %s\n", me.Region)
	fmt.Printf("Language: %s\n", me.Language)
}

func jsonOutput(cmd *cobra.Command) bool {
	out, _ := cmd.Flags().GetBool("output")
	return out
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
