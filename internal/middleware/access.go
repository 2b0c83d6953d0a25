package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/anonto42/nano-tube/backend/pkg/geoip"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Pages rendered to blocked clients
const (
	IPNotAllowedPage = "ip_not_allowed.html"
	BannedPage       = "you_are_banned.html"
)

// AccessConfig lists who may not use the site
type AccessConfig struct {
	BlockedIPs       []string
	BlockedCountries []string
	BlockedAccounts  []string
	Locator          geoip.Locator // nil disables country checks
	Logger           *logrus.Logger
}

// AccessControl rejects blocked addresses, countries and accounts.
// Static files are always served; banned accounts may still log out.
// It must run after LoadSession.
func AccessControl(cfg AccessConfig) echo.MiddlewareFunc {
	ips := toSet(cfg.BlockedIPs, strings.TrimSpace)
	countries := toSet(cfg.BlockedCountries, func(s string) string { return strings.ToUpper(strings.TrimSpace(s)) })
	accounts := toSet(cfg.BlockedAccounts, strings.TrimSpace)
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if strings.HasPrefix(path, "/static") {
				return next(c)
			}

			ip := c.RealIP()
			if _, blocked := ips[ip]; blocked {
				logger.WithField("ip", ip).Warn("blocked address")
				return c.Render(http.StatusForbidden, IPNotAllowedPage, nil)
			}
			if cfg.Locator != nil && len(countries) > 0 {
				if code := cfg.Locator.CountryCode(ip); code != "" {
					if _, blocked := countries[code]; blocked {
						logger.WithFields(logrus.Fields{"ip": ip, "country": code}).Warn("blocked country")
						return c.Render(http.StatusForbidden, IPNotAllowedPage, nil)
					}
				}
			}

			if strings.HasPrefix(path, "/logout") {
				return next(c)
			}
			if userID := CurrentUserID(c); userID != 0 {
				if _, banned := accounts[strconv.FormatUint(uint64(userID), 10)]; banned {
					logger.WithField("user_id", userID).Warn("banned account")
					return c.Render(http.StatusForbidden, BannedPage, map[string]interface{}{"UserID": userID})
				}
			}
			return next(c)
		}
	}
}

func toSet(values []string, norm func(string) string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v = norm(v); v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}
