package notifications

import "html/template"

var verificationTemplate = template.Must(template.New("verification").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1>Verify Your Email</h1>
  <p>Thank you for signing up! Your verification code is:</p>
  <p style="font-size: 32px; font-weight: bold; letter-spacing: 5px;">{{.Code}}</p>
  <p>Enter this code on the verification page to complete your registration.</p>
  <p>This code will expire in 24 hours for security reasons.</p>
  <p>If you didn't create an account with us, please ignore this email.</p>
</body>
</html>`))

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1>Welcome, {{.Name}}!</h1>
  <p>Your email is verified and your {{.AppName}} account is ready.</p>
</body>
</html>`))

var resetRequestTemplate = template.Must(template.New("reset-request").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1>Password Reset</h1>
  <p>We received a request to reset your password. If you didn't make this request, please ignore this email.</p>
  <p><a href="{{.ResetURL}}">Reset Password</a></p>
  <p>This link will expire in 1 hour for security reasons.</p>
</body>
</html>`))

var resetSuccessTemplate = template.Must(template.New("reset-success").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1>Password Reset Successful</h1>
  <p>Your password has been successfully reset.</p>
  <p>If you did not initiate this password reset, please contact our support team immediately.</p>
</body>
</html>`))
