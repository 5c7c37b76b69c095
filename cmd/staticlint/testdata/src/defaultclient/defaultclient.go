package defaultclient

import (
	"net/http"
	"strings"
	"time"
)

func get() {
	res, _ := http.Get("http://localhost:8000/api/urls") // want "defaultclient http.Get uses the default client without a timeout"
	_ = res.Body.Close()
}

func post() {
	res, _ := http.Post("http://localhost:8000/shorten", "application/json", strings.NewReader("{}")) // want "defaultclient http.Post uses the default client without a timeout"
	_ = res.Body.Close()
}

func defaultClient() *http.Client {
	return http.DefaultClient // want "defaultclient http.DefaultClient uses the default client without a timeout"
}

func configured() {
	c := &http.Client{Timeout: time.Second}
	res, _ := c.Get("http://localhost:8000/api/urls")
	_ = res.Body.Close()

	req, _ := http.NewRequest(http.MethodGet, "http://localhost:8000/api/urls", nil)
	_ = req.Header.Get("Accept")
}
