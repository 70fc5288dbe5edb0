package notify

import "fmt"

// wrapInLayout wraps rendered content in the shared page chrome so every
// mail template carries the same visual identity.
func (t *TemplateSet) wrapInLayout(contentHTML string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>%s</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
            background-color: #f9f9f9;
        }
        .container {
            background: white;
            padding: 30px;
            border-radius: 8px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
        }
        .header {
            text-align: center;
            margin-bottom: 30px;
            border-bottom: 2px solid #e5e7eb;
            padding-bottom: 20px;
        }
        .header h1 {
            color: #3b82f6;
            margin: 0;
            font-size: 24px;
        }
        .footer {
            margin-top: 30px;
            padding-top: 20px;
            border-top: 1px solid #e5e7eb;
            font-size: 12px;
            color: #6b7280;
            text-align: center;
        }
        .button {
            display: inline-block;
            padding: 12px 24px;
            background-color: #3b82f6;
            color: white;
            text-decoration: none;
            border-radius: 6px;
            font-weight: 600;
            margin: 16px 0;
        }
        .alert {
            padding: 12px;
            border-radius: 6px;
            margin: 16px 0;
        }
        .alert-info {
            background-color: #dbeafe;
            border: 1px solid #3b82f6;
            color: #1e40af;
        }
        .alert-success {
            background-color: #dcfce7;
            border: 1px solid #16a34a;
            color: #14532d;
        }
        .alert-warning {
            background-color: #fef3c7;
            border: 1px solid #d97706;
            color: #92400e;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>%s</h1>
        </div>
%s
        <div class="footer">
            <p>
                This email was sent by %s<br>
                If you have any questions, please contact our support team.
            </p>
        </div>
    </div>
</body>
</html>
`, t.appName, t.appName, contentHTML, t.appName)
}
