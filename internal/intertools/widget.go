package intertools

// widgetScript is the embeddable click-to-capture snippet. The two verbs
// are the projectId and the theme; the API origin is resolved from the
// script's own src so the snippet works from any host page. Clicking the
// floating button sends the current text selection, or a snippet of the
// page's main content when nothing is selected, together with page
// context metadata.
const widgetScript = `(function () {
  'use strict';

  var PROJECT_ID = %q;
  var THEME = %q;
  var ORIGIN = (function () {
    var s = document.currentScript;
    if (s && s.src) {
      var a = document.createElement('a');
      a.href = s.src;
      return a.protocol + '//' + a.host;
    }
    return '';
  })();

  var colors = THEME === 'dark'
    ? { bg: '#374151', ok: '#10B981', err: '#EF4444' }
    : { bg: '#3B82F6', ok: '#10B981', err: '#EF4444' };

  function createButton() {
    var button = document.createElement('div');
    button.id = 'intertools-chat-button';
    button.innerHTML = '💬';
    button.style.cssText = [
      'position:fixed', 'bottom:20px', 'right:20px',
      'width:60px', 'height:60px', 'background:' + colors.bg,
      'color:white', 'border-radius:50%%', 'display:flex',
      'align-items:center', 'justify-content:center', 'cursor:pointer',
      'font-size:24px', 'box-shadow:0 4px 12px rgba(0,0,0,.15)',
      'z-index:2147483000', 'transition:transform .3s ease'
    ].join(';');

    button.addEventListener('mouseover', function () {
      button.style.transform = 'scale(1.1)';
    });
    button.addEventListener('mouseout', function () {
      button.style.transform = 'scale(1)';
    });
    button.addEventListener('click', capture);

    document.body.appendChild(button);
  }

  function pageSnippet() {
    var main = document.querySelector('main') ||
      document.querySelector('[role="main"]') ||
      document.querySelector('.main-content') ||
      document.querySelector('#main') ||
      document.body;
    if (!main) return '';
    var text = main.textContent || main.innerText || '';
    return text.substring(0, 1000).trim();
  }

  function capture() {
    var selection = window.getSelection();
    var selectedText = selection ? selection.toString().trim() : '';

    fetch(ORIGIN + '/api/messages', {
      method: 'POST',
      headers: { 'Content-Type': 'application/json' },
      body: JSON.stringify({
        projectId: PROJECT_ID,
        htmlSnippet: selectedText || pageSnippet(),
        url: window.location.href,
        metadata: {
          title: document.title,
          timestamp: new Date().toISOString(),
          userAgent: navigator.userAgent,
          hasSelection: !!selectedText
        }
      })
    }).then(function (res) {
      if (!res.ok) throw new Error('HTTP ' + res.status);
      feedback(selectedText ? 'Selected text sent to chat!' : 'Page context sent to chat!', colors.ok);
    }).catch(function () {
      feedback('Failed to send to chat. Please try again.', colors.err);
    });
  }

  function feedback(message, background) {
    var toast = document.createElement('div');
    toast.style.cssText = [
      'position:fixed', 'bottom:100px', 'right:20px',
      'background:' + background, 'color:white', 'padding:12px 16px',
      'border-radius:8px', 'font:14px system-ui,sans-serif',
      'box-shadow:0 4px 12px rgba(0,0,0,.15)', 'z-index:2147483001',
      'max-width:250px', 'word-wrap:break-word'
    ].join(';');
    toast.textContent = message;
    document.body.appendChild(toast);
    setTimeout(function () {
      if (toast.parentNode) toast.parentNode.removeChild(toast);
    }, 3000);
  }

  if (document.readyState === 'loading') {
    document.addEventListener('DOMContentLoaded', createButton);
  } else {
    createButton();
  }
})();
`
