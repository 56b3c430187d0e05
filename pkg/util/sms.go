package util

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// SendVerificationSMS sends a one-time code via the Kavenegar SMS API.
// Without API credentials it runs in development mode and only logs the code.
func SendVerificationSMS(phoneNumber, code string) error {
	apiKey := os.Getenv("KAVENEGAR_API_KEY")
	sender := os.Getenv("KAVENEGAR_SENDER")

	if apiKey == "" {
		log.Printf("================================")
		log.Printf("[حالت توسعه] ارسال پیامک غیرفعال است")
		log.Printf("کد تایید برای %s: %s", phoneNumber, code)
		log.Printf("================================")
		return nil
	}

	message := fmt.Sprintf("شاپیار\nکد تایید شما: %s\nاین کد تا ۵ دقیقه معتبر است.", code)

	form := url.Values{}
	form.Set("receptor", phoneNumber)
	form.Set("message", message)
	if sender != "" {
		form.Set("sender", sender)
	}

	apiURL := fmt.Sprintf("https://api.kavenegar.com/v1/%s/sms/send.json", apiKey)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Post(apiURL, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to send SMS request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read SMS response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("Kavenegar API error response: %s", string(body))
		return fmt.Errorf("failed to send SMS (status code: %d): %s", resp.StatusCode, string(body))
	}

	log.Printf("SMS sent to %s", phoneNumber)
	return nil
}
