// testclient is a manual smoke test against a running server: it registers a
// throwaway account, runs a snippet, uploads a file, and reads it back.
//
// Usage:
//
//	go run ./cmd/testclient http://localhost:8080
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

func main() {
	base := "http://localhost:8080"
	if len(os.Args) > 1 {
		base = strings.TrimRight(os.Args[1], "/")
	}

	// 1. Run a snippet.
	runBody, _ := json.Marshal(map[string]string{
		"language": "python",
		"code":     "print(1+1)",
	})
	resp, err := http.Post(base+"/run", "application/json", bytes.NewReader(runBody))
	if err != nil {
		log.Fatalf("run: %v", err)
	}
	dump("POST /run", resp)

	// 2. Register and log in.
	email := fmt.Sprintf("smoke-%d@example.com", time.Now().Unix())
	regBody, _ := json.Marshal(map[string]string{"email": email, "password": "hunter2"})
	resp, err = http.Post(base+"/register", "application/json", bytes.NewReader(regBody))
	if err != nil {
		log.Fatalf("register: %v", err)
	}
	dump("POST /register", resp)

	form := url.Values{"username": {email}, "password": {"hunter2"}}
	resp, err = http.PostForm(base+"/login", form)
	if err != nil {
		log.Fatalf("login: %v", err)
	}
	var login struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		log.Fatalf("login decode: %v", err)
	}
	resp.Body.Close()
	log.Printf("POST /login: token acquired")

	// 3. Upload and read back.
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "notes.txt")
	fw.Write([]byte("hello from testclient\n"))
	mw.Close()

	req, _ := http.NewRequest(http.MethodPost, base+"/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("upload: %v", err)
	}
	var up struct {
		FileID string `json:"file_id"`
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	log.Printf("POST /upload: %s", body)
	if err := json.Unmarshal(body, &up); err != nil || up.FileID == "" {
		log.Fatalf("upload: no file_id in response")
	}

	req, _ = http.NewRequest(http.MethodGet, base+"/download/"+up.FileID, nil)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("download: %v", err)
	}
	dump("GET /download", resp)
}

func dump(label string, resp *http.Response) {
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	log.Printf("%s: %d %s", label, resp.StatusCode, bytes.TrimSpace(body))
}
