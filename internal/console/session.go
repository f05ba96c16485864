package console

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ammerola/stockroom/internal/adapters/api"
	"github.com/ammerola/stockroom/internal/core/domain"
	"github.com/ammerola/stockroom/internal/core/services"
	"github.com/ammerola/stockroom/internal/i18n"
)

func (c *Console) login(ctx context.Context, args []string) error {
	fs := c.flagSet("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (prompted when omitted)")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	if *email == "" {
		*email = c.prompt("Email")
	}
	if *password == "" {
		*password = c.prompt("Password")
	}

	session, err := c.auth.Login(ctx, domain.Credentials{Email: *email, Password: *password})
	if err != nil {
		return err
	}
	c.printf(i18n.MsgSignedIn, session.User.Name, session.User.Email)
	return nil
}

func (c *Console) register(ctx context.Context, args []string) error {
	fs := c.flagSet("register")
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password, at least 8 characters (prompted when omitted)")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	if *password == "" {
		*password = c.prompt("Password")
	}

	session, err := c.auth.Register(ctx, domain.Registration{Name: *name, Email: *email, Password: *password})
	if err != nil {
		return err
	}
	c.printf(i18n.MsgSignedIn, session.User.Name, session.User.Email)
	return nil
}

func (c *Console) logout(ctx context.Context, args []string) error {
	if _, err := parse(c.flagSet("logout"), args); err != nil {
		return err
	}
	if err := c.auth.Logout(ctx); err != nil {
		return err
	}
	c.printf(i18n.MsgSignedOut)
	return nil
}

func (c *Console) whoami(ctx context.Context, args []string) error {
	if _, err := parse(c.flagSet("whoami"), args); err != nil {
		return err
	}
	user, err := c.auth.Whoami(ctx)
	if err != nil {
		return err
	}
	c.printf(i18n.MsgSignedIn, user.Name, user.Email)
	return nil
}

func (c *Console) health(ctx context.Context, args []string) error {
	if _, err := parse(c.flagSet("health"), args); err != nil {
		return err
	}
	result := api.CheckHealth(ctx, c.opts.Client)
	if !result.OK {
		c.printf(i18n.MsgUnhealthy, result.Error)
		return errSilent
	}
	c.printf(i18n.MsgHealthy, result.Latency.Round(time.Millisecond))

	// an unreachable cache only slows the dashboard down
	if c.opts.Cache != nil {
		if err := c.opts.Cache.Ping(ctx); err != nil {
			c.printf(i18n.MsgCacheDown, err)
		} else {
			c.printf(i18n.MsgCacheUp)
		}
	}
	return nil
}

func (c *Console) settingsShow(_ context.Context, args []string) error {
	if _, err := parse(c.flagSet("settings show"), args); err != nil {
		return err
	}
	st := c.settings
	sortPref := func(p domain.SortPreference) string {
		return p.Field + ":" + string(p.Order)
	}
	values := map[string]string{
		services.SettingLanguage:          st.Language,
		services.SettingTheme:             string(st.Theme),
		services.SettingLowStockThreshold: fmt.Sprint(st.LowStockThreshold),
		services.SettingDateFormat:        st.DateFormat,
		services.SettingInventorySort:     sortPref(st.InventorySort),
		services.SettingSupplierSort:      sortPref(st.SupplierSort),
		services.SettingTransactionSort:   sortPref(st.TransactionSort),
	}
	for _, key := range services.SettingKeys() {
		fmt.Fprintf(c.out, "%s: %s\n", key, values[key])
	}
	return nil
}

func (c *Console) settingsSet(_ context.Context, args []string) error {
	rest, err := parse(c.flagSet("settings set"), args)
	if err != nil {
		return err
	}
	if len(rest) != 2 {
		return usagef("expected KEY VALUE, one of: %s", strings.Join(services.SettingKeys(), ", "))
	}

	settings, err := c.opts.Settings.Set(rest[0], rest[1])
	if err != nil {
		return err
	}
	c.settings = settings
	c.l = i18n.New(i18n.Match(settings.Language))
	c.printf(i18n.MsgSettingsSave, c.opts.Settings.Path())
	return nil
}
