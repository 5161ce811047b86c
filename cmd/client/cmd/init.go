// cmd/client/cmd/init.go
package cmd

import (
	"timekeeper/cmd/client/cmd/apps"
	"timekeeper/cmd/client/cmd/auth"
	"timekeeper/cmd/client/cmd/rule"
	"timekeeper/cmd/client/cmd/sync"
)

func init() {
	rootCmd.AddCommand(auth.AuthCmd)
	auth.AuthCmd.AddCommand(auth.LoginCmd)
	auth.AuthCmd.AddCommand(auth.RefreshCmd)
	auth.AuthCmd.AddCommand(auth.AccountsCmd)

	rootCmd.AddCommand(rule.RuleCmd)
	rule.RuleCmd.AddCommand(rule.ListCmd)
	rule.RuleCmd.AddCommand(rule.UpdateCmd)
	rule.RuleCmd.AddCommand(rule.CreateCmd)
	rule.RuleCmd.AddCommand(rule.DeleteCmd)

	rootCmd.AddCommand(apps.AppsCmd)
	apps.AppsCmd.AddCommand(apps.AddCmd)
	apps.AppsCmd.AddCommand(apps.RemoveCmd)

	rootCmd.AddCommand(sync.SyncCmd)
}
