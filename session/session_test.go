package session

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loginForm = `<html><body>
<form method="post" action="logon.aspx">
	<input type="hidden" name="__VIEWSTATE" value="state123" />
	<input type="hidden" name="__EVENTVALIDATION" value="ev456" />
	<input type="text" name="ctl00$Corpo$edtUsername" value="" />
	<input type="password" name="ctl00$Corpo$edtPassword" value="" />
	<input type="submit" name="ctl00$Corpo$btnConnect" value="Connect" />
</form>
</body></html>`

func portalServer(t *testing.T) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			fmt.Fprint(w, loginForm)
		case http.MethodPost:
			require.NoError(t, r.ParseForm())
			// The ASP.NET postback must carry the harvested hidden state.
			assert.Equal(t, "state123", r.PostFormValue("__VIEWSTATE"))
			assert.Equal(t, "ev456", r.PostFormValue("__EVENTVALIDATION"))

			if r.PostFormValue("ctl00$Corpo$edtUsername") != "operator" ||
				r.PostFormValue("ctl00$Corpo$edtPassword") != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			http.SetCookie(w, &http.Cookie{Name: "ASP.NET_SessionId", Value: "sess-789", Path: "/"})
			w.WriteHeader(http.StatusOK)
		}
	}))
}

func TestPortalLogin(t *testing.T) {
	server := portalServer(t)
	defer server.Close()

	provider := NewPortalLogin(PortalConfig{
		LoginURL: server.URL + "/logon.aspx",
		Username: "operator",
		Password: "secret",
	})

	credential, err := provider.Credential(context.Background())
	require.NoError(t, err)
	assert.Contains(t, credential, "ASP.NET_SessionId=sess-789")
}

func TestPortalLoginBadCredentials(t *testing.T) {
	server := portalServer(t)
	defer server.Close()

	provider := NewPortalLogin(PortalConfig{
		LoginURL: server.URL + "/logon.aspx",
		Username: "operator",
		Password: "wrong",
	})

	_, err := provider.Credential(context.Background())
	assert.Error(t, err)
}

func TestPortalLoginMissingFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><form><input name="something" value="x"/></form></body></html>`)
	}))
	defer server.Close()

	provider := NewPortalLogin(PortalConfig{
		LoginURL: server.URL,
		Username: "operator",
		Password: "secret",
	})

	_, err := provider.Credential(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no field")
}

func TestStaticCredential(t *testing.T) {
	credential, err := StaticCredential("session=abc").Credential(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "session=abc", credential)
}
